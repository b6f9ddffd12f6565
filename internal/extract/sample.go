package extract

import (
	"math/rand"
	"strconv"

	"go-fb-followers/internal/model"
)

// sampleSeed 固定随机种子，保证样例数据可复现。
const sampleSeed = 42

var sampleTemplates = []model.Raw{
	{
		"id":                "100048901720805",
		"image":             "https://example-cdn.fbcdn.net/profile1.jpg",
		"title":             "Janet Alabi",
		"subtitle_text":     "Lancaster, Pennsylvania",
		"url":               "facebook.com/janet.alabi.37819",
		"friendship_status": "CAN_REQUEST",
		"gender":            "FEMALE",
		"name":              "Janet Alabi",
	},
	{
		"id":                "100093221100654",
		"image":             "https://example-cdn.fbcdn.net/profile2.jpg",
		"title":             "Louis Park",
		"subtitle_text":     "Berlin, Germany",
		"url":               "http://facebook.com/louis.park.522",
		"friendship_status": "UNKNOWN",
		"gender":            nil,
		"name":              "Louis Park",
	},
}

// Fabricate 生成 n 条确定性样例：随机选模板，id 按序号递增，title 与 name 保持一致。
func Fabricate(n int) []model.Raw {
	rng := rand.New(rand.NewSource(sampleSeed))
	out := make([]model.Raw, 0, max(0, n))
	for len(out) < n {
		tpl := sampleTemplates[rng.Intn(len(sampleTemplates))]
		rec := make(model.Raw, len(tpl))
		for k, v := range tpl {
			rec[k] = v
		}
		base, _ := strconv.ParseInt(tpl["id"].(string), 10, 64)
		rec["id"] = strconv.FormatInt(base+int64(len(out))+1, 10)
		rec["title"] = rec["name"]
		out = append(out, rec)
	}
	return out
}
