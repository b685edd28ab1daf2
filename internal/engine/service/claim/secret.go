// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package claim

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const (
	tokenBytes     = 32
	passcodeLength = 6
	// no 0/O, 1/I/L
	passcodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// newToken returns a URL-safe link token carrying 256 bits of entropy.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// newPasscode draws passcodeLength characters uniformly from passcodeAlphabet.
func newPasscode() (string, error) {
	const limit = 256 - 256%len(passcodeAlphabet)

	out := make([]byte, 0, passcodeLength)
	buf := make([]byte, passcodeLength*2)
	for len(out) < passcodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, passcodeAlphabet[int(b)%len(passcodeAlphabet)])
			if len(out) == passcodeLength {
				break
			}
		}
	}
	return string(out), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizePasscode(passcode string) string {
	return strings.ToUpper(strings.TrimSpace(passcode))
}
