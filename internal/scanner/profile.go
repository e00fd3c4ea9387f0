package scanner

// Profile 一次扫描的过滤参数集合。normal/underdog只是两个固定取值，
// 新增档位只需新增取值，不需要新增类型
type Profile struct {
	Name                string   // 档位名
	MinVol              int      // 金额量区间下限
	MaxVol              int      // 金额量区间上限
	NotCountries        []string // 排除国家代码
	NotLeagues          []string // 排除联赛ID
	LiveOnly            bool     // 仅滚球
	ExcludeMajorLeagues bool     // 排除主流联赛
	TimeOrdered         bool     // 按开赛时间排序
}

// majorLeagueIDs 主流联赛ID（normal档位exclude_major时排除）
var majorLeagueIDs = []string{
	"228", "2005", "39218", "3784863", "12251791", "12374160", "12375833",
	"141", "10932509", "11086347", "12199359", "59", "55", "57", "81", "117", "13",
}

// underdogNotLeagues underdog档位固定排除的联赛ID
var underdogNotLeagues = []string{
	"228", "39218", "3784863", "35", "37", "41", "43", "105", "107", "109",
	"111", "30558", "252549", "7129730", "10932509", "11086347", "12199359",
	"12202273", "141", "89979", "11717188", "55", "57", "1081960", "59", "61",
	"11591693",
}

// profiles 已命名档位
var profiles = map[string]Profile{
	"normal": {
		Name:   "normal",
		MinVol: 50,
		MaxVol: 103,
	},
	"underdog": {
		Name:         "underdog",
		MinVol:       51,
		MaxVol:       103,
		NotCountries: []string{"GB", "US", "BE", "FR", "DE"},
		NotLeagues:   underdogNotLeagues,
	},
}

// ResolveProfile 按tip_type查找档位，未知取值回退normal
func ResolveProfile(tipType string) Profile {
	if p, ok := profiles[tipType]; ok {
		return p
	}
	return profiles["normal"]
}

// EffectiveNotLeagues 档位生效的排除联赛列表。
// 档位自带排除列表时以档位为准，否则由exclude_major决定是否排除主流联赛
func (p Profile) EffectiveNotLeagues() []string {
	if len(p.NotLeagues) > 0 {
		return p.NotLeagues
	}
	if p.ExcludeMajorLeagues {
		return majorLeagueIDs
	}
	return nil
}
