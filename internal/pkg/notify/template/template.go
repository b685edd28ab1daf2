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
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template is a named subject/body pair rendered with the same data.
type Template struct {
	Name    string
	Subject string
	Body    string
}

// TemplateEngine handles template rendering
type TemplateEngine struct {
	funcMap template.FuncMap
	mu      sync.RWMutex
	parsed  map[string]*template.Template
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine() *TemplateEngine {
	titleCaser := cases.Title(language.English)
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCaser.String,
		"trim":  strings.TrimSpace,
		"date": func(t time.Time) string {
			return t.UTC().Format("Monday, January 2, 2006 at 15:04 MST")
		},
	}

	return &TemplateEngine{
		funcMap: funcMap,
		parsed:  make(map[string]*template.Template),
	}
}

// Render renders a template with the given data. Parsed templates are
// cached by content.
func (e *TemplateEngine) Render(tmplContent string, data any) (string, error) {
	tmpl, err := e.parse(tmplContent)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// RenderTemplate renders both parts of t.
func (e *TemplateEngine) RenderTemplate(t Template, data any) (subject, body string, err error) {
	if subject, err = e.Render(t.Subject, data); err != nil {
		return "", "", fmt.Errorf("template %s subject: %w", t.Name, err)
	}
	if body, err = e.Render(t.Body, data); err != nil {
		return "", "", fmt.Errorf("template %s body: %w", t.Name, err)
	}
	return strings.TrimSpace(subject), body, nil
}

func (e *TemplateEngine) parse(content string) (*template.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.parsed[content]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := template.New("notification").Funcs(e.funcMap).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	e.mu.Lock()
	e.parsed[content] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}
