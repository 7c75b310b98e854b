package dto

import "sseojum/internal/usecase"

type JobInfoResponse struct {
	URL             string   `json:"url"`
	JobDescription  string   `json:"job_description"`
	TitleCandidates []string `json:"title_candidates"`
}

func NewJobInfoResponse(info usecase.JobInfo) JobInfoResponse {
	titles := info.TitleCandidates
	if titles == nil {
		titles = []string{}
	}
	return JobInfoResponse{
		URL:             info.URL,
		JobDescription:  info.JobDescription,
		TitleCandidates: titles,
	}
}
