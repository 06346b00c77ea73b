package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// OTPKey returns the cache key holding a user's pending one-time passcode.
func (r *CacheKeyStruct) OTPKey(userID string) string {
	return fmt.Sprintf("otp:%s", userID)
}

// LoginSessionKey returns the cache key holding a user's active token ID.
func (r *CacheKeyStruct) LoginSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// SessionPayloadKey returns the cache key for a booking's client-safe
// question payload, served identically for the lifetime of the attempt.
func (r *CacheKeyStruct) SessionPayloadKey(bookingID string) string {
	return fmt.Sprintf("booking:%s:payload", bookingID)
}

var CacheKey = NewCacheKeyStruct()
