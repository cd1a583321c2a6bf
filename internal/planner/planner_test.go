package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpflow/internal/languagemodel"
	"mcpflow/internal/mcpclient"
	"mcpflow/internal/mcperr"
)

type stubModel struct {
	response string
	err      error
}

func (s stubModel) Complete(context.Context, string) (string, error) { return s.response, s.err }

func TestIsDirectCommand(t *testing.T) {
	assert.True(t, IsDirectCommand("server list"))
	assert.True(t, IsDirectCommand("tool exec srv echo"))
	assert.True(t, IsDirectCommand("help"))
	assert.False(t, IsDirectCommand("please list the databases"))
}

func TestValidateGrammar(t *testing.T) {
	assert.True(t, ValidateGrammar("server list"))
	assert.True(t, ValidateGrammar("server info srv1"))
	assert.True(t, ValidateGrammar("tool all"))
	assert.True(t, ValidateGrammar("tool exec srv1 listDatabases"))
	assert.True(t, ValidateGrammar("help"))
	assert.False(t, ValidateGrammar("server"))
	assert.False(t, ValidateGrammar("do the thing"))
}

func TestIsMultiStep(t *testing.T) {
	assert.True(t, IsMultiStep("list the databases and then show their collections"))
	assert.True(t, IsMultiStep("first connect, then query"))
	assert.False(t, IsMultiStep("list the databases"))
}

func TestInferredDependencies(t *testing.T) {
	deps := InferredDependencies(map[string]any{
		"database": "${step_1.databases[0].name}",
		"other":    "${step_3.x}",
		"literal":  "admin",
	})
	assert.Equal(t, []int{1, 3}, deps)
}

func TestPlanner_FastPathSkipsModel(t *testing.T) {
	unreachable := stubModel{err: mcperr.New(mcperr.KindInternal, "model should not be called")}
	p := New(unreachable, unreachable)
	intent, plan, err := p.Plan(context.Background(), "server list", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, "server list", intent.Parameters["command"])
}

func TestPlanner_HelpNeededMarkerBecomesConversationalIntent(t *testing.T) {
	p := New(stubModel{response: "HELP_NEEDED: ambiguous request"}, stubModel{})
	intent, plan, err := p.Plan(context.Background(), "do something vague", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, "ambiguous request", intent.Reasoning)
}

func TestPlanner_ValidDirectCommandFromLLM(t *testing.T) {
	p := New(stubModel{response: "tool exec srv1 listDatabases"}, stubModel{})
	intent, built, err := p.Plan(context.Background(), "show me the databases on srv1", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	assert.Nil(t, built)
	assert.Equal(t, "tool exec srv1 listDatabases", intent.Parameters["command"])
}

func TestPlanner_InvalidGrammarFallsBackToPatternMatching(t *testing.T) {
	p := New(stubModel{response: "do whatever you think is best"}, stubModel{response: "tool exec srv1 listDatabases"})
	intent, built, err := p.Plan(context.Background(), "show me the databases", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	assert.Nil(t, built)
	assert.Equal(t, "tool exec srv1 listDatabases", intent.Parameters["command"])
}

func TestPlanner_ParsesJSONPlanWithDependencies(t *testing.T) {
	response := `{"analysis":"list then drill in","expected_outcome":"collections of admin db","steps":[` +
		`{"step":1,"action":"listDatabases","server":"srv1","parameters":{},"reasoning":"enumerate dbs"},` +
		`{"step":2,"action":"listCollections","server":"srv1","parameters":{"database":"${step_1.databases[0].name}"},"reasoning":"drill in"}` +
		`]}`
	p := New(stubModel{response: response}, stubModel{})
	_, built, err := p.Plan(context.Background(), "list databases then show collections", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	require.NotNil(t, built)
	require.Len(t, built.Steps, 2)
	assert.Equal(t, []int{1}, built.Steps[1].Dependencies)
}

func TestPlanner_RejectsPlanWithForwardReference(t *testing.T) {
	response := `{"analysis":"bad","expected_outcome":"n/a","steps":[` +
		`{"step":1,"action":"a","server":"srv1","parameters":{"x":"${step_2.y}"},"reasoning":"r"},` +
		`{"step":2,"action":"b","server":"srv1","parameters":{},"reasoning":"r"}` +
		`]}`
	p := New(stubModel{response: response}, stubModel{response: "tool all"})
	intent, built, err := p.Plan(context.Background(), "do two things", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	assert.Nil(t, built)
	assert.Equal(t, "tool all", intent.Parameters["command"])
}

func TestPlanner_NewSizedPicksFastModelWhenFastRequested(t *testing.T) {
	models := map[languagemodel.Size]languagemodel.LanguageModel{
		languagemodel.SizeFast:    stubModel{response: "tool all"},
		languagemodel.SizeDefault: stubModel{err: mcperr.New(mcperr.KindInternal, "default model should not be called")},
	}
	p := NewSized(models, stubModel{})
	intent, built, err := p.Plan(context.Background(), "show me the databases", mcpclient.ToolCatalog{}, true)
	require.NoError(t, err)
	assert.Nil(t, built)
	assert.Equal(t, "tool all", intent.Parameters["command"])
}

func TestPlanner_NewSizedFallsBackToDefaultForMissingSize(t *testing.T) {
	models := map[languagemodel.Size]languagemodel.LanguageModel{
		languagemodel.SizeDefault: stubModel{response: "tool all"},
	}
	p := NewSized(models, stubModel{})
	intent, built, err := p.Plan(context.Background(), "show me the databases", mcpclient.ToolCatalog{}, false)
	require.NoError(t, err)
	assert.Nil(t, built)
	assert.Equal(t, "tool all", intent.Parameters["command"])
}

func TestPlanner_BothModelsFailingReturnsPlanningError(t *testing.T) {
	p := New(stubModel{err: mcperr.New(mcperr.KindNetwork, "down")}, stubModel{err: mcperr.New(mcperr.KindNetwork, "down")})
	_, _, err := p.Plan(context.Background(), "do something", mcpclient.ToolCatalog{}, false)
	require.Error(t, err)
	kind, ok := mcperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindPlanning, kind)
}
