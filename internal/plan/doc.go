// Package plan defines the shared data model between the Planner (which
// produces a Plan) and the Chain Orchestrator (which executes one):
// Intent, Plan, Step, StepResult, and the Chain Execution Result. Keeping
// these types in their own package avoids an import cycle between the
// two.
package plan
