package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
		wantErr  bool
	}{
		{"plain words", "listDrafts", []string{"listDrafts"}, false},
		{"args and flags", "draftShift 2025-08-04 09:00 17:00 Day --count 2", []string{"draftShift", "2025-08-04", "09:00", "17:00", "Day", "--count", "2"}, false},
		{"double quotes", `createDepartment "Front of House"`, []string{"createDepartment", "Front of House"}, false},
		{"single quotes", `requestTimeOff 2025-08-11 2025-08-13 HOLIDAY --reason 'family trip'`, []string{"requestTimeOff", "2025-08-11", "2025-08-13", "HOLIDAY", "--reason", "family trip"}, false},
		{"extra spaces", "  session   show  ", []string{"session", "show"}, false},
		{"unclosed quote", `createDepartment "Front`, nil, true},
		{"empty", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

// recordingCmd captures the args and flag value each run sees
func recordingCmd(use string, runs *[]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:  use,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			*runs = append(*runs, strings.Join(args, ",")+"|"+string(rune('0'+count)))
			return nil
		},
	}
	cmd.Flags().Int("count", 1, "")
	return cmd
}

func TestRunDirect_ResetsFlagsBetweenRuns(t *testing.T) {
	var runs []string
	cmd := recordingCmd("draftShift", &runs)

	require.NoError(t, runDirect(cmd, []string{"a", "--count", "3"}))
	require.NoError(t, runDirect(cmd, []string{"b"}))

	assert.Equal(t, []string{"a|3", "b|1"}, runs)
}

func TestRunDirect_ValidatesArgs(t *testing.T) {
	var runs []string
	cmd := recordingCmd("draftShift", &runs)

	err := runDirect(cmd, []string{"a", "b"})
	assert.Error(t, err)
	assert.Empty(t, runs)
}

func TestRunDirect_ResolvesSubcommands(t *testing.T) {
	var runs []string
	parent := &cobra.Command{Use: "session"}
	parent.AddCommand(recordingCmd("show", &runs), recordingCmd("clear", &runs))

	require.NoError(t, runDirect(parent, []string{"clear", "userId"}))
	assert.Equal(t, []string{"userId|1"}, runs)

	err := runDirect(parent, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "show")
}

func TestSessionKey(t *testing.T) {
	key, err := sessionKey("organizationid")
	require.NoError(t, err)
	assert.Equal(t, "organizationId", key)

	_, err = sessionKey("password")
	assert.Error(t, err)
}
