package handler

// Структуры полезной нагрузки вебхуков GitHub. Объявлены только поля,
// которые нужны для построения команд.

type githubRepository struct {
	FullName string `json:"full_name"`
}

type githubPullRequest struct {
	Number int  `json:"number"`
	Merged bool `json:"merged"`
}

type reviewEventPayload struct {
	Action string `json:"action"`
	Review struct {
		State string `json:"state"`
	} `json:"review"`
	PullRequest githubPullRequest `json:"pull_request"`
	Repository  githubRepository  `json:"repository"`
}

type pullRequestEventPayload struct {
	Action      string            `json:"action"`
	PullRequest githubPullRequest `json:"pull_request"`
	Repository  githubRepository  `json:"repository"`
}

type checkRunEventPayload struct {
	Action   string `json:"action"`
	CheckRun struct {
		Conclusion   string `json:"conclusion"`
		PullRequests []struct {
			Number int `json:"number"`
		} `json:"pull_requests"`
	} `json:"check_run"`
	Repository githubRepository `json:"repository"`
}

type statusEventPayload struct {
	State      string           `json:"state"`
	SHA        string           `json:"sha"`
	Repository githubRepository `json:"repository"`
}
