// Package script loads action scripts: named, ordered lists of command strings.
//
// Files ending in .hcl hold one or more script blocks:
//
//	script "login" {
//	  url     = "https://example.com/login"
//	  actions = [
//	    "set field #user to alice",
//	    "click #submit",
//	    "wait for path to be /home",
//	  ]
//	}
//
// Any other file is read as one command per line; blank lines and lines
// starting with # are skipped.
package script

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"page-actions/pkg/apperr"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type Script struct {
	Name string
	// URL is visited before the first action when set.
	URL     string
	Actions []string
	File    string
}

type hclFile struct {
	Scripts []*hclScript `hcl:"script,block"`
}

type hclScript struct {
	Name    string   `hcl:"name,label"`
	URL     string   `hcl:"url,optional"`
	Actions []string `hcl:"actions"`
}

// Load reads every script defined in path.
func Load(path string) ([]*Script, error) {
	const op = "script.Load"

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeNotFound, err, map[string]any{
			apperr.MetaReason: "read_failed",
			apperr.MetaStage:  apperr.StageScript,
			apperr.MetaFile:   path,
		})
	}

	return Parse(path, src)
}

// Parse decodes src, choosing the format from filename's extension.
func Parse(filename string, src []byte) ([]*Script, error) {
	if strings.EqualFold(filepath.Ext(filename), ".hcl") {
		return parseHCL(filename, src)
	}

	return parseLines(filename, src)
}

func parseHCL(filename string, src []byte) ([]*Script, error) {
	const op = "script.parseHCL"

	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, invalid(op, filename, "parse_failed", diags)
	}

	var decoded hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return nil, invalid(op, filename, "decode_failed", diags)
	}

	if len(decoded.Scripts) == 0 {
		return nil, invalid(op, filename, "no_scripts", errors.New("no script blocks"))
	}

	scripts := make([]*Script, 0, len(decoded.Scripts))
	seen := make(map[string]struct{}, len(decoded.Scripts))

	for _, s := range decoded.Scripts {
		if _, ok := seen[s.Name]; ok {
			return nil, invalid(op, filename, "duplicate_script", fmt.Errorf("script %q defined twice", s.Name))
		}
		seen[s.Name] = struct{}{}

		actions := make([]string, 0, len(s.Actions))
		for _, a := range s.Actions {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}

		scripts = append(scripts, &Script{
			Name:    s.Name,
			URL:     s.URL,
			Actions: actions,
			File:    filename,
		})
	}

	return scripts, nil
}

func parseLines(filename string, src []byte) ([]*Script, error) {
	const op = "script.parseLines"

	var actions []string

	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		actions = append(actions, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, invalid(op, filename, "scan_failed", err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	return []*Script{{Name: name, Actions: actions, File: filename}}, nil
}

func invalid(op, filename, reason string, err error) error {
	return apperr.Wrap(op, apperr.CodeScriptInvalid, err, map[string]any{
		apperr.MetaReason: reason,
		apperr.MetaStage:  apperr.StageScript,
		apperr.MetaFile:   filename,
	})
}
