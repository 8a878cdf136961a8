package core

type PromptConfig interface {
	GetSystemPath() string
	GetIdentityPath() string
	GetUserProfilePath() string
}
