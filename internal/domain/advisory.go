package domain

// AdvisoryMessage 描述一次草稿步骤变化，由 API 进程发布到消息队列，
// 由 advisory worker 消费后生成解说文本。解说只是参考信息，不影响校验结果
type AdvisoryMessage struct {
	UserID       int64  `json:"userID"`
	RulesSummary string `json:"rulesSummary"`
	Transition   string `json:"transition"`
}
