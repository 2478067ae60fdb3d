package dictionary

import (
	"context"
	"strings"

	"codeberg.org/snonux/lingocard/internal/lookup"
)

// Local answers from a built-in table of common words with Chinese
// definitions and bilingual examples. It never touches the network.
type Local struct {
	entries map[string]lookup.Dictionary
}

// NewLocal returns the built-in table.
func NewLocal() *Local {
	return &Local{entries: localEntries}
}

func (l *Local) Name() string { return "local" }

// Localized is always true: the table is written in Chinese.
func (l *Local) Localized() bool { return true }

// Lookup returns a copy of the entry for word, matched case-insensitively.
func (l *Local) Lookup(_ context.Context, word string) (*lookup.Dictionary, error) {
	entry, ok := l.entries[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return nil, nil
	}
	entry.Word = word
	entry.Definitions = append([]lookup.Definition(nil), entry.Definitions...)
	entry.Examples = append([]string(nil), entry.Examples...)
	return &entry, nil
}

// Len returns the number of words in the table.
func (l *Local) Len() int { return len(l.entries) }

type def = lookup.Definition

var localEntries = map[string]lookup.Dictionary{
	"hello": {
		Phonetic:    "/həˈloʊ/",
		Definitions: []def{{"int.", "你好；喂（用于问候或引起注意）"}, {"n.", "问候；招呼"}},
		Examples:    []string{"Hello, how are you? 你好，你好吗？", "She said hello to everyone. 她向每个人问好。"},
	},
	"world": {
		Phonetic:    "/wɜːrld/",
		Definitions: []def{{"n.", "世界；地球"}, {"n.", "领域；界"}},
		Examples:    []string{"Welcome to the world! 欢迎来到这个世界！", "The business world is competitive. 商业世界竞争激烈。"},
	},
	"computer": {
		Phonetic:    "/kəmˈpjuːtər/",
		Definitions: []def{{"n.", "计算机；电脑"}},
		Examples:    []string{"I use a computer for work. 我用电脑工作。"},
	},
	"study": {
		Phonetic:    "/ˈstʌdi/",
		Definitions: []def{{"v.", "学习；研究"}, {"n.", "学习；研究；书房"}},
		Examples:    []string{"I study English every day. 我每天学习英语。", "This study shows interesting results. 这项研究显示了有趣的结果。"},
	},
	"translate": {
		Phonetic:    "/trænsˈleɪt/",
		Definitions: []def{{"v.", "翻译；转换"}},
		Examples:    []string{"Can you translate this sentence? 你能翻译这个句子吗？"},
	},
	"book": {
		Phonetic:    "/bʊk/",
		Definitions: []def{{"n.", "书；书籍"}, {"v.", "预订；预约"}},
		Examples:    []string{"This is a good book. 这是一本好书。", "I need to book a hotel. 我需要预订酒店。"},
	},
	"learn": {
		Phonetic:    "/lɜːrn/",
		Definitions: []def{{"v.", "学习；学会；了解"}},
		Examples:    []string{"I want to learn Chinese. 我想学中文。", "Children learn quickly. 孩子们学得很快。"},
	},
	"language": {
		Phonetic:    "/ˈlæŋɡwɪdʒ/",
		Definitions: []def{{"n.", "语言；语言文字"}},
		Examples:    []string{"English is a global language. 英语是全球语言。", "Body language is important. 肢体语言很重要。"},
	},
	"work": {
		Phonetic:    "/wɜːrk/",
		Definitions: []def{{"v.", "工作；运转；起作用"}, {"n.", "工作；职业；作品"}},
		Examples:    []string{"I work in an office. 我在办公室工作。", "This method works well. 这个方法很有效。"},
	},
	"time": {
		Phonetic:    "/taɪm/",
		Definitions: []def{{"n.", "时间；时刻；次数"}, {"v.", "计时；安排时间"}},
		Examples:    []string{"What time is it? 现在几点了？", "Time flies quickly. 时间过得很快。"},
	},
	"good": {
		Phonetic:    "/ɡʊd/",
		Definitions: []def{{"adj.", "好的；良好的；善良的"}, {"n.", "好处；利益"}},
		Examples:    []string{"This is a good idea. 这是个好主意。", "Good morning! 早上好！"},
	},
	"morning": {
		Phonetic:    "/ˈmɔːrnɪŋ/",
		Definitions: []def{{"n.", "早晨；上午"}},
		Examples:    []string{"Good morning! 早上好！", "I exercise every morning. 我每天早上锻炼。"},
	},
	"thank": {
		Phonetic:    "/θæŋk/",
		Definitions: []def{{"v.", "感谢；谢谢"}},
		Examples:    []string{"Thank you very much. 非常感谢你。", "I want to thank everyone. 我想感谢每个人。"},
	},
	"help": {
		Phonetic:    "/help/",
		Definitions: []def{{"v.", "帮助；协助"}, {"n.", "帮助；援助"}},
		Examples:    []string{"Can you help me? 你能帮我吗？", "I need your help. 我需要你的帮助。"},
	},
	"love": {
		Phonetic:    "/lʌv/",
		Definitions: []def{{"v.", "爱；喜欢"}, {"n.", "爱；爱情"}},
		Examples:    []string{"I love you. 我爱你。", "Love is beautiful. 爱是美好的。"},
	},
	"apple": {
		Phonetic:    "/ˈæpəl/",
		Definitions: []def{{"n.", "苹果；苹果公司"}},
		Examples:    []string{"I eat an apple every day. 我每天吃一个苹果。"},
	},
	"water": {
		Phonetic:    "/ˈwɔːtər/",
		Definitions: []def{{"n.", "水；水域"}, {"v.", "浇水；给...水喝"}},
		Examples:    []string{"I drink water every day. 我每天喝水。", "Please water the plants. 请给植物浇水。"},
	},
	"house": {
		Phonetic:    "/haʊs/",
		Definitions: []def{{"n.", "房子；住宅"}, {"v.", "容纳；收藏"}},
		Examples:    []string{"This is my house. 这是我的房子。", "The library houses many books. 图书馆收藏了很多书。"},
	},
	"car": {
		Phonetic:    "/kɑːr/",
		Definitions: []def{{"n.", "汽车；车厢"}},
		Examples:    []string{"I drive a car to work. 我开车上班。"},
	},
	"phone": {
		Phonetic:    "/foʊn/",
		Definitions: []def{{"n.", "电话；手机"}, {"v.", "打电话"}},
		Examples:    []string{"My phone is ringing. 我的手机在响。", "Please phone me later. 请稍后给我打电话。"},
	},
	"school": {
		Phonetic:    "/skuːl/",
		Definitions: []def{{"n.", "学校；学院"}, {"v.", "教育；训练"}},
		Examples:    []string{"I go to school every day. 我每天上学。", "She schools her children at home. 她在家教育孩子。"},
	},
	"friend": {
		Phonetic:    "/frend/",
		Definitions: []def{{"n.", "朋友；友人"}, {"v.", "与...交友"}},
		Examples:    []string{"He is my best friend. 他是我最好的朋友。", "I want to friend you on social media. 我想在社交媒体上加你为好友。"},
	},
	"family": {
		Phonetic:    "/ˈfæməli/",
		Definitions: []def{{"n.", "家庭；家族"}, {"adj.", "家庭的；家族的"}},
		Examples:    []string{"I love my family. 我爱我的家人。", "This is a family restaurant. 这是一家家庭餐厅。"},
	},
	"money": {
		Phonetic:    "/ˈmʌni/",
		Definitions: []def{{"n.", "钱；货币；财富"}},
		Examples:    []string{"I need more money. 我需要更多钱。", "Money can't buy happiness. 金钱买不到幸福。"},
	},
	"food": {
		Phonetic:    "/fuːd/",
		Definitions: []def{{"n.", "食物；食品；养料"}},
		Examples:    []string{"I like Chinese food. 我喜欢中国菜。", "Food is essential for life. 食物是生命必需的。"},
	},
	"music": {
		Phonetic:    "/ˈmjuːzɪk/",
		Definitions: []def{{"n.", "音乐；乐曲"}},
		Examples:    []string{"I love listening to music. 我喜欢听音乐。", "She studies music at university. 她在大学学习音乐。"},
	},
	"movie": {
		Phonetic:    "/ˈmuːvi/",
		Definitions: []def{{"n.", "电影；影片"}},
		Examples:    []string{"Let's watch a movie tonight. 我们今晚看电影吧。", "This movie is very interesting. 这部电影很有趣。"},
	},
	"game": {
		Phonetic:    "/ɡeɪm/",
		Definitions: []def{{"n.", "游戏；比赛；猎物"}, {"v.", "赌博；玩游戏"}},
		Examples:    []string{"Let's play a game. 我们来玩个游戏吧。", "The football game was exciting. 足球比赛很精彩。"},
	},
	"internet": {
		Phonetic:    "/ˈɪntərnet/",
		Definitions: []def{{"n.", "互联网；因特网"}},
		Examples:    []string{"I use the internet every day. 我每天使用互联网。", "The internet has changed our lives. 互联网改变了我们的生活。"},
	},
}
