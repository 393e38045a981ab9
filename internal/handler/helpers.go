package handler

import (
	"pr-review-notifier/internal/domain"
)

// Вспомогательные функции преобразования доменных моделей в API модели

// ErrorResponse — конверт ошибки API.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func toErrorResponse(code, message string) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}

// PullRequestView — представление агрегата для листинга.
type PullRequestView struct {
	Identifier         string   `json:"identifier"`
	GTMCount           int      `json:"gtm_count"`
	NotGTMCount        int      `json:"not_gtm_count"`
	CommentCount       int      `json:"comment_count"`
	CIStatus           string   `json:"ci_status"`
	IsMerged           bool     `json:"is_merged"`
	MessageIdentifiers []string `json:"message_ids"`
}

func toPullRequestView(pr *domain.PullRequest) PullRequestView {
	messageIDs := make([]string, len(pr.MessageIdentifiers))
	for i, id := range pr.MessageIdentifiers {
		messageIDs[i] = id.String()
	}
	return PullRequestView{
		Identifier:         pr.Identifier.String(),
		GTMCount:           pr.GTMCount,
		NotGTMCount:        pr.NotGTMCount,
		CommentCount:       pr.CommentCount,
		CIStatus:           string(pr.CIStatus),
		IsMerged:           pr.IsMerged,
		MessageIdentifiers: messageIDs,
	}
}

func toPullRequestViews(prs []*domain.PullRequest) []PullRequestView {
	views := make([]PullRequestView, len(prs))
	for i, pr := range prs {
		views[i] = toPullRequestView(pr)
	}
	return views
}
