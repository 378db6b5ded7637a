package report

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/lineguard/lineguard/internal/git"
	"github.com/lineguard/lineguard/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool             `json:"tool"`
	Results     []sarifResult         `json:"results"`
	Invocations []sarifInvocation     `json:"invocations,omitempty"`
	VCS         []sarifVersionControl `json:"versionControlProvenance,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt     `json:"artifactLocation"`
	Region           *sarifRegion `json:"region,omitempty"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

type sarifInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifVersionControl struct {
	RepositoryURI string `json:"repositoryUri"`
	RevisionID    string `json:"revisionId,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// sarifRules is the fixed rule table; a result's ruleIndex points into it.
var sarifRules = []sarifRule{
	{ID: string(types.TrailingSpace), ShortDescription: sarifMessage{Text: "Line ends with spaces or tabs"}},
	{ID: string(types.MissingNewline), ShortDescription: sarifMessage{Text: "File does not end with a newline"}},
	{ID: string(types.MultipleNewlines), ShortDescription: sarifMessage{Text: "File ends with more than one newline"}},
}

func ruleIndex(k types.IssueKind) int {
	for i, r := range sarifRules {
		if r.ID == string(k) {
			return i
		}
	}
	return 0
}

// SARIF writes a SARIF 2.1.0 log with one result per issue. Files that
// could not be checked become tool execution notifications.
type SARIF struct {
	Version    string
	Provenance *git.Metadata
}

func (s *SARIF) Report(w io.Writer, results []types.CheckResult) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "lineguard",
			Version:        s.Version,
			InformationURI: "https://github.com/lineguard/lineguard",
			Rules:          sarifRules,
		}},
		Results: []sarifResult{},
	}
	inv := sarifInvocation{ExecutionSuccessful: true}
	for _, r := range results {
		art := sarifArt{URI: filepath.ToSlash(r.FilePath)}
		if r.HasError() {
			inv.ToolExecutionNotifications = append(inv.ToolExecutionNotifications, sarifNotification{
				Level:     "error",
				Message:   sarifMessage{Text: r.Error},
				Locations: []sarifLoc{{PhysicalLocation: sarifPhys{ArtifactLocation: art}}},
			})
		}
		for _, is := range r.Issues {
			phys := sarifPhys{ArtifactLocation: art}
			if is.Line != nil {
				phys.Region = &sarifRegion{StartLine: *is.Line}
			}
			run.Results = append(run.Results, sarifResult{
				RuleID:    string(is.Kind),
				RuleIndex: ruleIndex(is.Kind),
				Level:     "error",
				Message:   sarifMessage{Text: is.Message},
				Locations: []sarifLoc{{PhysicalLocation: phys}},
			})
		}
	}
	run.Invocations = []sarifInvocation{inv}
	if p := s.Provenance; p != nil && p.Repo != "" {
		run.VCS = []sarifVersionControl{{RepositoryURI: repoURI(p.Repo), RevisionID: p.Commit, Branch: p.Branch}}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// repoURI expands an owner/name remote to a GitHub URL.
func repoURI(repo string) string {
	if filepath.IsAbs(repo) || strings.Contains(repo, "://") {
		return repo
	}
	return "https://github.com/" + repo
}
