package model

import (
	"time"

	"gorm.io/datatypes"
)

// User 用户表：凭证、积分余额、推荐关系、个人代理配置
type User struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Username      string    `gorm:"column:username;type:varchar(150);uniqueIndex;not null;comment:用户名"`
	Email         string    `gorm:"column:email;type:varchar(254);comment:邮箱"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(128);not null;comment:bcrypt密码哈希"`
	Token         string    `gorm:"column:token;type:varchar(64);uniqueIndex;not null;comment:API访问令牌"`
	APIKey        string    `gorm:"column:api_key;type:varchar(36);uniqueIndex;not null;comment:对外API Key（UUID）"`
	CreditBalance int       `gorm:"column:credit_balance;type:int;default:1000;comment:积分余额（>=0）"`
	EarnedTokens  int       `gorm:"column:earned_tokens;type:int;default:0;comment:累计奖励积分"`
	ReferralCode  *string   `gorm:"column:referral_code;type:varchar(50);uniqueIndex;comment:推荐码"`
	InvitedByID   *uint64   `gorm:"column:invited_by_id;type:bigint;comment:邀请人ID"`
	IsPremium     bool      `gorm:"column:is_premium;type:boolean;default:false;comment:是否高级用户"`
	ProxyEnabled  bool      `gorm:"column:proxy_enabled;type:boolean;default:false;comment:是否启用个人代理"`
	ProxyHost     *string   `gorm:"column:proxy_host;type:varchar(255);comment:个人代理主机"`
	ProxyPort     *int      `gorm:"column:proxy_port;type:int;comment:个人代理端口"`
	ProxyUsername *string   `gorm:"column:proxy_username;type:varchar(255);comment:个人代理用户名"`
	ProxyPassword *string   `gorm:"column:proxy_password;type:varchar(255);comment:个人代理密码"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// MatchTip 比赛提示表：每次扫描后保存的聚合结果（供历史查询接口用）
type MatchTip struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID         string    `gorm:"column:match_id;type:varchar(255);uniqueIndex:uk_match_tip,priority:1;not null;comment:去重键（联赛|主队|客队|盘口|主导结果）"`
	TipType         string    `gorm:"column:tip_type;type:varchar(20);uniqueIndex:uk_match_tip,priority:2;default:normal;comment:提示类型：normal/underdog"`
	League          string    `gorm:"column:league;type:varchar(255);comment:联赛"`
	HomeTeam        string    `gorm:"column:home_team;type:varchar(255);comment:主队"`
	AwayTeam        string    `gorm:"column:away_team;type:varchar(255);comment:客队"`
	MatchTime       time.Time `gorm:"column:match_time;type:timestamp;index:idx_match_time_type,priority:1;not null;comment:开赛时间（UTC）"`
	Pick            string    `gorm:"column:pick;type:varchar(255);comment:主导结果标签"`
	Odds            *float64  `gorm:"column:odds;type:numeric(5,2);comment:主导结果赔率（可空）"`
	Percentage      float64   `gorm:"column:percentage;type:numeric(5,2);comment:主导资金占比（0-100）"`
	Market          string    `gorm:"column:market;type:varchar(255);comment:盘口名称"`
	TotalMoney      float64   `gorm:"column:total_money;type:numeric(10,2);comment:总投注金额"`
	DominantMoney   float64   `gorm:"column:dominant_money;type:numeric(10,2);comment:主导结果投注金额"`
	ConfidenceLevel string    `gorm:"column:confidence_level;type:varchar(20);index:idx_confidence_type,priority:1;comment:置信级别：high/medium/low"`
	IsLive          bool      `gorm:"column:is_live;type:boolean;default:false;comment:是否滚球"`
	IsMajorLeague   bool      `gorm:"column:is_major_league;type:boolean;default:false;comment:是否主流联赛"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// APIRequestLog 扫描请求审计表：每次成功扫描写一条
type APIRequestLog struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID        uint64         `gorm:"column:user_id;type:bigint;index;not null;comment:用户ID"`
	Endpoint      string         `gorm:"column:endpoint;type:varchar(255);not null;comment:请求端点"`
	Parameters    datatypes.JSON `gorm:"column:parameters;type:jsonb;not null;comment:请求参数快照"`
	CreditsUsed   int            `gorm:"column:credits_used;type:int;not null;comment:消耗积分"`
	ResponseCount int            `gorm:"column:response_count;type:int;default:0;comment:返回结果条数"`
	UsedProxy     bool           `gorm:"column:used_proxy;type:boolean;default:false;comment:是否实际走代理"`
	Timestamp     time.Time      `gorm:"column:timestamp;type:timestamp;default:now();index;comment:请求时间"`
}

// CreditTransaction 积分流水表：api_call/purchase/refund/admin_adjustment
type CreditTransaction struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID          uint64    `gorm:"column:user_id;type:bigint;index;not null;comment:用户ID"`
	TransactionType string    `gorm:"column:transaction_type;type:varchar(20);not null;comment:流水类型"`
	Amount          int       `gorm:"column:amount;type:int;not null;comment:变动金额（消费为负）"`
	Description     string    `gorm:"column:description;type:text;comment:说明"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:now();index;comment:创建时间"`
}

// Subscription 订阅表（管理端维护，扫描路径只读）
type Subscription struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID    uint64    `gorm:"column:user_id;type:bigint;index;not null;comment:用户ID"`
	PlanType  string    `gorm:"column:plan_type;type:varchar(50);not null;comment:套餐类型"`
	StartDate time.Time `gorm:"column:start_date;type:timestamp;default:now();comment:开始时间"`
	EndDate   time.Time `gorm:"column:end_date;type:timestamp;not null;comment:结束时间"`
	IsActive  bool      `gorm:"column:is_active;type:boolean;default:true;comment:是否生效"`
}

// Proxy 出口代理表：扫描路径只做选取和成功率回写，停用由管理端操作
type Proxy struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Host        string     `gorm:"column:host;type:varchar(255);not null;comment:主机"`
	Port        int        `gorm:"column:port;type:int;not null;comment:端口"`
	Username    *string    `gorm:"column:username;type:varchar(255);comment:用户名"`
	Password    *string    `gorm:"column:password;type:varchar(255);comment:密码"`
	Protocol    string     `gorm:"column:protocol;type:varchar(10);default:http;comment:协议：http/socks5"`
	IsActive    bool       `gorm:"column:is_active;type:boolean;default:true;comment:是否可用"`
	SuccessRate float64    `gorm:"column:success_rate;type:numeric(5,2);default:0;comment:成功率EMA（0-100）"`
	LastUsed    *time.Time `gorm:"column:last_used;type:timestamp;comment:最近使用时间"`
}

func (User) TableName() string              { return "users" }
func (MatchTip) TableName() string          { return "match_tips" }
func (APIRequestLog) TableName() string     { return "api_request_logs" }
func (CreditTransaction) TableName() string { return "credit_transactions" }
func (Subscription) TableName() string      { return "subscriptions" }
func (Proxy) TableName() string             { return "proxies" }
