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

package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	e := NewTemplateEngine()

	out, err := e.Render(`{{upper .name}} {{title .team}}`, map[string]any{"name": "jo", "team": "blue jays"})
	require.NoError(t, err)
	assert.Equal(t, "JO Blue Jays", out)

	_, err = e.Render(`{{.missing}}`, map[string]any{})
	assert.Error(t, err)

	_, err = e.Render(`{{.broken`, nil)
	assert.Error(t, err)
}

func TestInvitation(t *testing.T) {
	e := NewTemplateEngine()
	data := struct {
		SubjectDisplayName string
		IssuerDisplayName  string
		ClaimLink          string
		Message            string
		ExpiresAt          time.Time
	}{
		SubjectDisplayName: "alice",
		IssuerDisplayName:  "Coach Sam",
		ClaimLink:          "https://lunabeam.test/claim?token=abc",
		Message:            " see you Saturday ",
		ExpiresAt:          time.Date(2025, 5, 17, 9, 0, 0, 0, time.UTC),
	}

	subject, body, err := e.RenderTemplate(Invitation, data)
	require.NoError(t, err)
	assert.Equal(t, "Coach Sam invited you to LunaBeam", subject)
	assert.Contains(t, body, "Hi Alice,")
	assert.Contains(t, body, `"see you Saturday"`)
	assert.Contains(t, body, data.ClaimLink)
	assert.Contains(t, body, "Saturday, May 17, 2025 at 09:00 UTC")

	data.IssuerDisplayName = ""
	data.Message = ""
	subject, body, err = e.RenderTemplate(Invitation, data)
	require.NoError(t, err)
	assert.Equal(t, "You are invited to LunaBeam", subject)
	assert.Contains(t, body, "your supporter")
	assert.NotContains(t, body, `"`)
}
