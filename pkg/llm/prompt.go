package llm

import (
	"fmt"
	"strings"
)

// articleSystemPrompt asks for a flat json array of keywords for one title
const articleSystemPrompt = `你是一個AI語言模型，任務是從單篇新聞文章標題中提取有意義的關鍵詞，並直接返回一個JSON格式的字串數組。

- 只需返回標題對應的關鍵詞陣列，不需要額外的物件包裝。
- 關鍵詞應集中於標題中的關鍵實體、行動和重要主題。
- 去除重複內容，並轉換為半形字元（如適用）。
- 確保輸出格式為JSON字串數組，例如：

範例輸入：
- "本田與日產同意合併　擬明年6月達成最終協議"

預期輸出：
` + "```json\n" + `["本田", "日產", "合併", "明年", "6月", "最終協議"]
` + "```\n"

// batchSystemPrompt asks for one keyword array per title, in input order
const batchSystemPrompt = `你是一個AI語言模型，任務是從多篇新聞文章標題中提取有意義的關鍵詞，並直接返回一個JSON格式的二維字串數組。

- 每個標題對應一個關鍵詞陣列，陣列順序必須與輸入標題順序一致。
- 關鍵詞應集中於標題中的關鍵實體、行動和重要主題。
- 去除重複內容，並轉換為半形字元（如適用）。
- 確保輸出格式為JSON二維字串數組，例如：

範例輸入：
- "本田與日產同意合併　擬明年6月達成最終協議"
- "天文台發出黃色暴雨警告信號"

預期輸出：
` + "```json\n" + `[["本田", "日產", "合併", "明年", "6月", "最終協議"], ["天文台", "黃色暴雨警告信號"]]
` + "```\n"

func articlePrompt(title string) string {
	return fmt.Sprintf("請提取以下新聞文章標題的關鍵詞，並以JSON格式的字串數組返回：\n\"%s\"", title)
}

func batchPrompt(titles []string) string {
	lines := make([]string, len(titles))
	for i, t := range titles {
		lines[i] = fmt.Sprintf("- \"%s\"", t)
	}
	return "請提取以下新聞文章標題的關鍵詞，並以JSON格式的二維字串數組返回：\n" + strings.Join(lines, "\n")
}
