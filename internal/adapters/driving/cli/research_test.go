package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchCmd_Use(t *testing.T) {
	assert.Equal(t, "research [query]", researchCmd.Use)
}

func TestResearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(t, &stubRetrieval{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"research"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestResearchCmd_HasFlags(t *testing.T) {
	flag := researchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)

	assert.NotNil(t, researchCmd.Flags().Lookup("news"))
	assert.NotNil(t, researchCmd.Flags().Lookup("country"))
	assert.NotNil(t, researchCmd.Flags().Lookup("json"))
}

func TestResearchCmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices(t, &stubRetrieval{results: sampleResults()})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"research", "adverse possession"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Smith v Jones")
	assert.Contains(t, buf.String(), "https://example.com/smith")
}

func TestResearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t, &stubRetrieval{results: sampleResults()})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"research", "--json", "adverse possession"})
	defer func() {
		rootCmd.SetArgs(nil)
		researchJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"RelevanceScore": 0.9`)
}

func TestResearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(t, &stubRetrieval{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"research", "obscure topic"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestResearchCmd_ProviderErrorSurfaces(t *testing.T) {
	providerErr := errors.New("status 500")
	cleanup := setupTestServices(t, &stubRetrieval{err: providerErr})
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"research", "q"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, providerErr)
}
