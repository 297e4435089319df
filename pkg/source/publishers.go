package source

import (
	"net/url"
	"regexp"
	"time"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/feed"
)

var (
	hketHostRe = regexp.MustCompile(`//[^/]*\.hket\.com`)
	hketSizeRe = regexp.MustCompile(`_\d+(\.(?:jpg|png|gif))`)
)

// Publishers returns the full publisher catalogue
func Publishers() []Publisher {
	return []Publisher{HKET(), RTHK(), Mingpao(), YahooHK(), SCMP(), BBCChinese(), Etnet(), HK01(), Oncc(), NowNews(), NYTimesCN()}
}

func zhHK(title, link, image string) domain.Source {
	return domain.Source{Title: title, Link: link, Image: image, Languages: []domain.Language{domain.LanguageZhHK}}
}

// HKET is hket.com, feed link comes from channel docs and images are upscaled via static host
func HKET() Publisher {
	return Publisher{
		Key:    "hket",
		Source: zhHK("HKET經濟日報", "https://www.hket.com/", "https://asset.brandfetch.io/iddIq3P2DT/idvOKPuUMC.png"),
		Base:   "https://www.hket.com/rss",
		Paths: map[domain.Category][]string{
			domain.CategoryLocal:         {"/hongkong"},
			domain.CategoryFinance:       {"/finance"},
			domain.CategoryChina:         {"/china"},
			domain.CategoryWorld:         {"/world"},
			domain.CategoryLifestyle:     {"/lifestyle"},
			domain.CategoryTechnology:    {"/technology"},
			domain.CategoryEntertainment: {"/entertainment"},
		},
		Decoder: RSSDecoder(RSSHooks{FeedLink: LinkFromDocs, ItemImage: hketImage}),
	}
}

// hketImage switches image host to static04 and requests 1024px rendition
func hketImage(item feed.RSSItem) string {
	if item.Image == "" {
		return ""
	}
	img := replaceFirst(hketHostRe, item.Image, "//static04.hket.com")
	return replaceFirst(hketSizeRe, img, "_1024$1")
}

// RTHK is rthk.hk express news, feed link is the request url
func RTHK() Publisher {
	return Publisher{
		Key: "rthk",
		Source: zhHK("RTHK 香港電台", "https://www.rthk.hk/",
			"https://upload.wikimedia.org/wikipedia/commons/thumb/4/44/Radio_Television_Hong_Kong_Logo.svg/"+
				"1200px-Radio_Television_Hong_Kong_Logo.svg.png"),
		Base: "https://rthk.hk/rthk/news/rss",
		Paths: map[domain.Category][]string{
			domain.CategoryLocal:   {"/c_expressnews_clocal.xml"},
			domain.CategoryChina:   {"/c_expressnews_greaterchina.xml"},
			domain.CategoryWorld:   {"/c_expressnews_cinternational.xml"},
			domain.CategoryFinance: {"/c_expressnews_cfinance.xml"},
			domain.CategorySports:  {"/c_expressnews_csport.xml"},
		},
		Decoder: RSSDecoder(RSSHooks{FeedLink: LinkFromURL}),
	}
}

// Mingpao is mingpao.com instant and daily news
func Mingpao() Publisher {
	return Publisher{
		Key:    "mingpao",
		Source: zhHK("明報", "https://www.mingpao.com", "https://creative.mingpao.com/image/mplogos/mingpao.png"),
		Base:   "https://news.mingpao.com/rss",
		Paths: map[domain.Category][]string{
			domain.CategoryTop:           {"/ins/s00024.xml", "/pns/s00001.xml"},
			domain.CategoryLocal:         {"/ins/s00001.xml", "/ins/s00022.xml", "/pns/s00002.xml", "/pns/s00005.xml"},
			domain.CategoryPolitics:      {"/pns/s00003.xml", "/pns/s00012.xml", "/pns/s00018.xml"},
			domain.CategoryFinance:       {"/ins/s00002.xml", "/ins/s00003.xml", "/pns/s00004.xml"},
			domain.CategoryEntertainment: {"/ins/s00007.xml", "/pns/s00016.xml"},
			domain.CategoryChina:         {"/ins/s00004.xml", "/pns/s00013.xml"},
			domain.CategoryWorld:         {"/ins/s00005.xml", "/pns/s00014.xml", "/pns/s00017.xml"},
			domain.CategoryEducation:     {"/pns/s00011.xml"},
			domain.CategorySports:        {"/ins/s00006.xml", "/pns/s00015.xml"},
		},
		Decoder: RSSDecoder(RSSHooks{FeedLink: LinkFromDocs}),
	}
}

// YahooHK is hk.news.yahoo.com, images come from untyped media:content
func YahooHK() Publisher {
	return Publisher{
		Key:    "yahoo",
		Source: zhHK("Yahoo 新聞", "https://hk.news.yahoo.com", "https://asset.brandfetch.io/idgoJtPkpl/idGA9wfHeu.svg"),
		Base:   "https://hk.news.yahoo.com/rss",
		Paths: map[domain.Category][]string{
			domain.CategoryTop:           {"/"},
			domain.CategoryLocal:         {"/hong-kong", "/topic", "/supplement"},
			domain.CategoryFinance:       {"/business"},
			domain.CategoryEntertainment: {"/entertainment"},
			domain.CategorySports:        {"/sports"},
			domain.CategoryWorld:         {"/world"},
			domain.CategoryHealth:        {"/health"},
		},
		Decoder: RSSDecoder(RSSHooks{ItemImage: func(item feed.RSSItem) string { return item.Media }, PlainText: true}),
	}
}

// SCMP is south china morning post
func SCMP() Publisher {
	return Publisher{
		Key:    "scmp",
		Source: zhHK("South China Morning Post", "https://www.scmp.com", "https://asset.brandfetch.io/idqyZMY8gD/id6JAKj5mM.jpeg"),
		Base:   "https://www.scmp.com/rss",
		Paths: map[domain.Category][]string{
			domain.CategoryTop:        {"/91/feed"},
			domain.CategoryLocal:      {"/2/feed"},
			domain.CategoryChina:      {"/4/feed"},
			domain.CategoryWorld:      {"/3/feed", "/5/feed"},
			domain.CategoryFinance:    {"/92/feed", "/96/feed"},
			domain.CategoryTechnology: {"/36/feed"},
			domain.CategoryLifestyle:  {"/94/feed", "/72/feed"},
			domain.CategoryCulture:    {"/322296/feed"},
			domain.CategorySports:     {"/95/feed"},
		},
		Decoder: RSSDecoder(RSSHooks{PlainText: true}),
	}
}

// BBCChinese is bbc traditional chinese service
func BBCChinese() Publisher {
	return Publisher{
		Key:     "bbc",
		Source:  zhHK("BBC News 中文", "https://www.bbc.co.uk/zhongwen", "https://asset.brandfetch.io/idtEghWGp4/idDlTthx3l.png"),
		Base:    "https://www.bbc.co.uk/zhongwen/trad",
		Paths:   map[domain.Category][]string{domain.CategoryTop: {"/index.xml"}},
		Decoder: RSSDecoder(RSSHooks{}),
	}
}

// Etnet is etnet.com.hk finance news, feed link is the request url
func Etnet() Publisher {
	return Publisher{
		Key:     "etnet",
		Source:  zhHK("etnet 經濟通", "http://www.etnet.com.hk", "https://asset.brandfetch.io/idcLmZqp-J/idw-8XLR4G.jpeg"),
		Base:    "https://www.etnet.com.hk/www/tc/news/rss.php",
		Paths:   map[domain.Category][]string{domain.CategoryFinance: {"?section=editor", "?section=special"}},
		Decoder: RSSDecoder(RSSHooks{FeedLink: LinkFromURL}),
	}
}

// HK01 is hk01.com page api, requires bucketId query
func HK01() Publisher {
	return Publisher{
		Key:    "hk01",
		Source: zhHK("HK01", "https://www.hk01.com/", "https://asset.brandfetch.io/iduOmR6IDK/id5ixqiq8-.jpeg"),
		Base:   "https://web-data.api.hk01.com/v2/page",
		Paths: map[domain.Category][]string{
			domain.CategoryLocal:         {"/zone/1", "/zone/10"},
			domain.CategoryEntertainment: {"/zone/2", "/zone/19"},
			domain.CategorySports:        {"/zone/3"},
			domain.CategoryWorld:         {"/zone/4"},
			domain.CategoryChina:         {"/zone/5"},
			domain.CategoryLifestyle:     {"/zone/6", "/zone/8", "/zone/9", "/zone/13", "/zone/20"},
			domain.CategoryTop:           {"/zone/7"},
			domain.CategoryTechnology:    {"/zone/11"},
			domain.CategoryPolitics:      {"/zone/12"},
			domain.CategoryFinance:       {"/zone/14"},
			domain.CategoryEducation:     {"/zone/23"},
			domain.CategoryHealth:        {"/zone/24"},
		},
		Params:  url.Values{"bucketId": {"00000"}},
		Decoder: decodeHK01,
	}
}

// Oncc is on.cc breaking news json
func Oncc() Publisher {
	const base = "https://hk.on.cc/hk/bkn"
	return Publisher{
		Key:    "oncc",
		Source: zhHK("on.cc 東網", "https://hk.on.cc/", "https://on.cc/img/oncc_logo_v2.png"),
		Base:   base,
		Paths: map[domain.Category][]string{
			domain.CategoryLocal:   {"/js/totop_news.js"},
			domain.CategoryChina:   {"/js/totop_cnnews.js"},
			domain.CategoryWorld:   {"/js/totop_intnews.js"},
			domain.CategoryFinance: {"/js/totop_finance.js"},
			domain.CategorySports:  {"/js/totop_sport.js"},
		},
		Decoder: onccDecoder(base),
	}
}

// NowNews is news.now.com mobile site, served only to mobile user agents
func NowNews() Publisher {
	const base = "https://news.now.com"
	return Publisher{
		Key:    "now",
		Source: zhHK("Now 新聞", base, "https://news.now.com/revamp2014/images/logo.png"),
		Base:   base,
		Paths: map[domain.Category][]string{
			domain.CategoryLocal:         {"/mobile/local"},
			domain.CategoryWorld:         {"/mobile/international"},
			domain.CategoryEntertainment: {"/mobile/entertainment"},
			domain.CategoryLifestyle:     {"/mobile/life"},
			domain.CategoryTechnology:    {"/mobile/technology"},
			domain.CategoryFinance:       {"/mobile/finance"},
			domain.CategorySports:        {"/mobile/sports"},
		},
		Header:  map[string]string{"User-Agent": feed.MobileUserAgent},
		Decoder: nowNewsDecoder(base, func() time.Time { return time.Now().In(hkt) }),
	}
}

// NYTimesCN is new york times chinese mobile site
func NYTimesCN() Publisher {
	return Publisher{
		Key:    "nytimes",
		Source: zhHK("紐約時報中文網", "https://m.cn.nytimes.com/", "https://asset.brandfetch.io/ida5pjO05F/idVD16ua83.png"),
		Base:   "https://m.cn.nytimes.com",
		Paths: map[domain.Category][]string{
			domain.CategoryWorld:      {"/world"},
			domain.CategoryChina:      {"/china"},
			domain.CategoryFinance:    {"/business", "/real-estate"},
			domain.CategoryTechnology: {"/technology"},
			domain.CategoryScience:    {"/science"},
			domain.CategoryHealth:     {"/health"},
			domain.CategoryEducation:  {"/education"},
			domain.CategoryCulture:    {"/culture"},
			domain.CategoryLifestyle:  {"/style"},
			domain.CategoryTravel:     {"/travel"},
			domain.CategoryOpinion:    {"/opinion"},
		},
		Decoder: decodeNYTimes,
	}
}

// replaceFirst replaces only the first match of re
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, repl, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}
