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

// Invitation is the default claim invitation email.
var Invitation = Template{
	Name:    "claim_invitation",
	Subject: `{{if .IssuerDisplayName}}{{.IssuerDisplayName}} invited you{{else}}You are invited{{end}} to LunaBeam`,
	Body: `Hi {{title .SubjectDisplayName}},

{{if .IssuerDisplayName}}{{.IssuerDisplayName}} set up a LunaBeam account for you.{{else}}A LunaBeam account is waiting for you.{{end}}
{{- with .Message}}

"{{trim .}}"
{{- end}}

Open the link below to claim it and choose your password:

{{.ClaimLink}}

You will also need the passcode {{if .IssuerDisplayName}}{{.IssuerDisplayName}}{{else}}your supporter{{end}} shares with you.
The link stops working on {{date .ExpiresAt}}.

If you were not expecting this email you can ignore it.
`,
}
