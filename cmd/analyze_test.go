package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"

	jsoniter "github.com/json-iterator/go"
)

const fightLog = `{
	"fight": {"id": 4, "name": "Terros", "startTime": 0, "endTime": 95000},
	"combatant": {"id": 9, "name": "Drake", "spec": "Evoker-Preservation", "talents": [373270]},
	"events": [
		{"timestamp": 1000, "type": "heal", "sourceID": 9, "targetID": 3, "abilityGameID": 361509, "amount": 2000},
		{"timestamp": 1001, "type": "heal", "sourceID": 9, "targetID": 3, "abilityGameID": 373268, "amount": 1500}
	]
}`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	analyzeJSON = false
	analyzeReport = ""
	analyzeFight = 0
	analyzePlayer = ""
	analyzeSave = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeLog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fight.json")
	if err := os.WriteFile(path, []byte(fightLog), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	out, err := runRoot(t, "analyze", writeLog(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Drake", "Evoker-Preservation", "Terros #4", "1m35s", "Lifebind healing breakdown by spell", "Living Flame", "1,500"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeFileJSON(t *testing.T) {
	out, err := runRoot(t, "analyze", "--json", writeLog(t))
	if err != nil {
		t.Fatal(err)
	}

	var fr analysis.FightResult
	if err := jsoniter.Unmarshal([]byte(out), &fr); err != nil {
		t.Fatal(err)
	}
	if fr.ID != 4 || fr.Events != 2 || len(fr.Statistics) != 1 || fr.Statistics[0].Items[0].Value != 1500 {
		t.Errorf("result = %+v", fr)
	}
}

func TestAnalyzeRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"nothing to analyze", []string{"analyze"}},
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "nope.json")}},
		{"invalid request", []string{"analyze", "--report", "short", "--fight", "1", "--player", "Drake"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runRoot(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
