package service

import "errors"

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrAnalysisNotFound      = errors.New("analysis not found")
	ErrDecisionNotFound      = errors.New("decision not found")
	ErrCodeIndexNotFound     = errors.New("code index not found")
	ErrTooManyDeepFiles      = errors.New("too many deep files")
	ErrNoDeepFiles           = errors.New("deep analysis requires at least one file")
	ErrInvalidDecisionStatus = errors.New("invalid decision status")
	ErrAsyncUnavailable      = errors.New("async analysis is not configured")
)
