package consts

const (
	// StoryViewKey 按天累计的阅读量计数 story:view:<yyyymmdd>:<story_id>
	StoryViewKey = "story:view:"
	// StoryUniqueViewKey 按天去重阅读 HyperLogLog story:uv:<yyyymmdd>:<story_id>
	StoryUniqueViewKey = "story:uv:"
	// StoryShareKey 按天累计的分享计数 story:share:<yyyymmdd>:<story_id>
	StoryShareKey = "story:share:"
	// StoryDirtyKey 当日有阅读行为的故事集合 story:dirty:<yyyymmdd>
	StoryDirtyKey = "story:dirty:"

	StoryDetailKey   = "story:detail:"
	StoryChaptersKey = "story:chapters:"
)

const (
	// RankingLockKey 排行榜计算互斥锁 ranking:lock:<horizon>
	RankingLockKey = "ranking:lock:"
)
