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
	"net/mail"
	"strings"
)

// bcrypt ignores every byte past 72.
const maxCredentialBytes = 72

// normalizeContact accepts exactly one RFC 5322 address and returns its
// lower-cased addr-spec.
func normalizeContact(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", newError(CodeValidation, "invitee contact is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", &Error{Code: CodeValidation, Message: "invalid invitee contact", Cause: err}
	}
	domain := addr.Address[strings.LastIndex(addr.Address, "@")+1:]
	if !strings.Contains(domain, ".") {
		return "", newError(CodeValidation, "invitee contact %q has no domain", addr.Address)
	}
	return strings.ToLower(addr.Address), nil
}

func (s *Service) checkCredential(credential string) error {
	if len([]rune(credential)) < s.cfg.MinCredentialLength {
		return newError(CodeCredentialPolicy, "password must be at least %d characters", s.cfg.MinCredentialLength)
	}
	if len(credential) > maxCredentialBytes {
		return newError(CodeCredentialPolicy, "password must be at most %d bytes", maxCredentialBytes)
	}
	if strings.TrimSpace(credential) == "" {
		return newError(CodeCredentialPolicy, "password must not be blank")
	}
	return nil
}
