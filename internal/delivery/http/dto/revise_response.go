package dto

import "sseojum/internal/usecase"

type ReviseResponse struct {
	Answer       string `json:"answer"`
	VersionIndex int    `json:"version_index"`
	HasUndo      bool   `json:"has_undo"`
	HasRedo      bool   `json:"has_redo"`
}

func NewReviseResponse(res usecase.ReviseResult) ReviseResponse {
	return ReviseResponse{
		Answer:       res.Answer,
		VersionIndex: res.VersionIndex,
		HasUndo:      res.HasUndo,
		HasRedo:      res.HasRedo,
	}
}
