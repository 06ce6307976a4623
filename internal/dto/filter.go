package dto

type MemberFilter struct {
	UserIDs           []string
	IncludeTerminated bool
}
