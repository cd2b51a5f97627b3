package linear

// Issue is a Linear issue as returned by every issue-shaped operation.
type Issue struct {
	ID          string     `json:"id"`
	Identifier  string     `json:"identifier"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    float64    `json:"priority"`
	URL         string     `json:"url"`
	State       IssueState `json:"state"`
	Team        TeamRef    `json:"team"`
	Assignee    *User      `json:"assignee"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// IssueState is the workflow state of an issue. Type is one of triage,
// backlog, unstarted, started, completed or canceled.
type IssueState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// TeamRef identifies the team an issue belongs to.
type TeamRef struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// User is an issue assignee.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is a Linear team.
type Team struct {
	ID          string  `json:"id"`
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// IssueCreateInput is the input to the issueCreate mutation. The type name
// doubles as the GraphQL input type name. Nil optionals are not sent.
type IssueCreateInput struct {
	TeamID      string  `json:"teamId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
}

// IssueUpdateInput is the input to the issueUpdate mutation. Nil fields are
// left unchanged by Linear.
type IssueUpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Terminal workflow state types excluded from the active issue list.
const (
	StateCompleted = "completed"
	StateCanceled  = "canceled"
)
