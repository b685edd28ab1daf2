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

package auth

import (
	"errors"
)

// AuthType represents the authentication type
type AuthType string

const (
	AuthTypeBasic  AuthType = "basic"  // Basic authentication
	AuthTypeBearer AuthType = "bearer" // Bearer token authentication
	AuthTypeToken  AuthType = "token"  // Static token in a custom header
)

// IAuthProvider supplies the credentials a channel attaches to its requests.
type IAuthProvider interface {
	GetAuthType() AuthType
	// GetAuthHeader returns the header key and value, or two empty strings
	// when the provider does not authenticate through a header.
	GetAuthHeader() (string, string)
	Validate() error
}

// BearerAuth sends "Authorization: Bearer <token>".
type BearerAuth struct {
	Token string
}

func NewBearerAuth(token string) *BearerAuth {
	return &BearerAuth{Token: token}
}

func (a *BearerAuth) GetAuthType() AuthType {
	return AuthTypeBearer
}

func (a *BearerAuth) GetAuthHeader() (string, string) {
	return "Authorization", "Bearer " + a.Token
}

func (a *BearerAuth) Validate() error {
	if a.Token == "" {
		return errors.New("bearer token cannot be empty")
	}
	return nil
}

// TokenAuth sends the token in a custom header, X-Token by default.
type TokenAuth struct {
	Header string
	Token  string
}

func NewTokenAuth(header, token string) *TokenAuth {
	if header == "" {
		header = "X-Token"
	}
	return &TokenAuth{Header: header, Token: token}
}

func (a *TokenAuth) GetAuthType() AuthType {
	return AuthTypeToken
}

func (a *TokenAuth) GetAuthHeader() (string, string) {
	return a.Header, a.Token
}

func (a *TokenAuth) Validate() error {
	if a.Token == "" {
		return errors.New("token cannot be empty")
	}
	return nil
}
