// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"math/rand"
	"sync"
	"time"
)

const hexDigits = "0123456789abcdef"

// RandomID generates short hex suffixes for auto-generated object names. It
// only has to avoid collisions, it is not a security boundary.
type RandomID struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomID(src rand.Source) *RandomID {
	return &RandomID{rnd: rand.New(src)}
}

func NewSeededRandomID(seed int64) *RandomID {
	return NewRandomID(rand.NewSource(seed))
}

func DefaultRandomID() *RandomID {
	return NewSeededRandomID(time.Now().UnixNano())
}

// Generate returns exactly length lowercase hex characters.
func (r *RandomID) Generate(length int) string {
	if length <= 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, length)
	for i := range b {
		b[i] = hexDigits[r.rnd.Intn(len(hexDigits))]
	}
	return string(b)
}
