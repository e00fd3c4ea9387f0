package model

import (
	"encoding/json"
	"time"
)

// PageResponse 上游单页响应：data为本页比赛快照，remaining表示是否还有下一页
type PageResponse struct {
	Data      []RawMatch `json:"data"`
	Remaining bool       `json:"remaining"`
}

// RawMatch 上游单场比赛快照。主客队/联赛字段存在两套命名（htn/atn/ln 与 home/away/league），
// 解析时短字段优先、长字段兜底
type RawMatch struct {
	HTN     string       `json:"htn"`
	Home    string       `json:"home"`
	ATN     string       `json:"atn"`
	Away    string       `json:"away"`
	LN      string       `json:"ln"`
	League  string       `json:"league"`
	Kickoff string       `json:"ce"` // ISO-8601开赛时间，可能带Z后缀
	Volume  float64      `json:"v"`  // 总投注金额
	Market  string       `json:"n"`  // 盘口名称
	Items   []RawOutcome `json:"i"`  // 结果列表，保持上游顺序
}

// HomeName 主队名（两套命名兼容）
func (m *RawMatch) HomeName() string {
	if m.HTN != "" {
		return m.HTN
	}
	return m.Home
}

// AwayName 客队名（两套命名兼容）
func (m *RawMatch) AwayName() string {
	if m.ATN != "" {
		return m.ATN
	}
	return m.Away
}

// LeagueName 联赛名，两套命名都缺失时返回Unknown
func (m *RawMatch) LeagueName() string {
	if m.LN != "" {
		return m.LN
	}
	if m.League != "" {
		return m.League
	}
	return "Unknown"
}

// RawOutcome 上游结果元组 [code, money, ?, odds?]。
// 元组过短或类型不符时不报错，只留零值，由扫描器统一跳过（上游数据质量不归我们管）
type RawOutcome struct {
	Code  string
	Money float64
	Odds  *float64
}

// UnmarshalJSON 容错解析上游元组
func (o *RawOutcome) UnmarshalJSON(b []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(b, &tuple); err != nil {
		return nil
	}
	if len(tuple) < 2 {
		return nil
	}
	if err := json.Unmarshal(tuple[0], &o.Code); err != nil {
		return nil
	}
	_ = json.Unmarshal(tuple[1], &o.Money)
	if len(tuple) > 3 {
		var odds float64
		if err := json.Unmarshal(tuple[3], &odds); err == nil {
			o.Odds = &odds
		}
	}
	return nil
}

// Tip 单条聚合结果：一个盘口中资金占比最高的结果。创建后不再修改
type Tip struct {
	League        string    `json:"league"`
	Match         string    `json:"match"` // "主队 vs 客队"
	MatchKickoff  time.Time `json:"match_kickoff"`
	Pick          string    `json:"pick"`
	Odds          *float64  `json:"odds"`
	Percentage    float64   `json:"percentage"` // 主导资金占比，保留2位小数
	Market        string    `json:"market"`
	IsHot         bool      `json:"is_hot"` // 占比>=85
	TotalMoney    float64   `json:"total_money"`
	DominantMoney float64   `json:"dominant_money"`
}
