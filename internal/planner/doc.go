// Package planner builds the SubjectPlan for one subject: the resolved
// input meshes, the output file set, and the argument vectors of the four
// geometry stages in the order they must run. The pipeline package
// executes the plan.
package planner
