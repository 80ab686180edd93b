package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active JWT ID
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// FormPayloadKey returns the cache key for a published form's respondent payload
func (r *CacheKeyStruct) FormPayloadKey(formID string) string {
	return fmt.Sprintf("form:%s:payload", formID)
}

// ResponseAnswersKey returns the cache key for a response's autosaved answers
func (r *CacheKeyStruct) ResponseAnswersKey(responseID string) string {
	return fmt.Sprintf("response:%s:answers", responseID)
}

// ResponseStartKey returns the cache key for a response's start timestamp
func (r *CacheKeyStruct) ResponseStartKey(responseID string) string {
	return fmt.Sprintf("response:%s:started_at", responseID)
}

// FormResultsChannel returns the Redis PubSub channel for live form results
func (r *CacheKeyStruct) FormResultsChannel(formID string) string {
	return fmt.Sprintf("form:%s:results", formID)
}

var CacheKey = NewCacheKeyStruct()
