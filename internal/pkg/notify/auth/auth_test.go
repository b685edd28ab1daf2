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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviders(t *testing.T) {
	k, v := NewBasicAuth("user", "pass").GetAuthHeader()
	assert.Equal(t, "Authorization", k)
	assert.Equal(t, "Basic dXNlcjpwYXNz", v)

	k, v = NewBearerAuth("abc").GetAuthHeader()
	assert.Equal(t, "Authorization", k)
	assert.Equal(t, "Bearer abc", v)

	k, v = NewTokenAuth("", "abc").GetAuthHeader()
	assert.Equal(t, "X-Token", k)
	assert.Equal(t, "abc", v)

	assert.Error(t, NewBasicAuth("user", "").Validate())
	assert.Error(t, NewBearerAuth("").Validate())
	assert.Error(t, NewTokenAuth("X-Key", "").Validate())
	assert.NoError(t, NewTokenAuth("X-Key", "k").Validate())
}
