// Package generator produces application documents from templates and
// registers the resulting applications with the record store.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Generator renders one document from templatePath into outputPath and
// returns the path written.
type Generator interface {
	Generate(ctx context.Context, templatePath, outputPath string, fields map[string]string) (string, error)
}

// TemplateGenerator renders text/template files. Fields are available to the
// template by name, e.g. {{.Company}}.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) Generate(ctx context.Context, templatePath, outputPath string, fields map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := template.New(filepath.Base(templatePath)).Option("missingkey=zero").ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", templatePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("render template %s: %w", templatePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o770); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}
