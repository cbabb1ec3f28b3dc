package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `backoffice is a small-business dashboard over one user's live data: projects, tasks, contacts, transactions and flowcharts.

Model:
- Every list tool reads the latest snapshot pushed by the store. Writes are not echoed locally; a save shows up in lists once the store pushes it back, usually within milliseconds.
- One project is selected at a time. project_board shows its tasks; save_task puts new tasks there unless project_id is given.
- Deletes require confirm=true. Anything else cancels without touching the store.

Workflow:
1) Orient: dashboard_overview.
2) Browse: list_projects, project_board, calendar_month, list_contacts, finances, list_flowcharts.
3) Change: save_* to create (omit id) or edit (pass id and only the fields to change), set_task_status, delete_*.

Errors:
- "not ready": identity is still resolving; retry shortly.
- "demo mode": no identity could be established; nothing can be read or written.
- INVALID_INPUT: a field was rejected and nothing was written.

Docs:
- backoffice://docs/index
- backoffice://docs/entities
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "backoffice://docs/index",
		Name:        "docs_index",
		Title:       "backoffice docs index",
		Description: "Entry point: what each page of the dashboard shows and which tool reads or changes it.",
		Content: `# backoffice: Agent Docs Index

## Pages

- Overview: ` + "`dashboard_overview`" + `. Total tasks, total contacts, income, expenses, net, up to five tasks that are not done, the first five contacts.
- Projects: ` + "`list_projects`" + `, ` + "`select_project`" + `, ` + "`project_board`" + `, ` + "`save_project`" + `, ` + "`delete_project`" + `.
- Tasks: ` + "`save_task`" + `, ` + "`set_task_status`" + `, ` + "`delete_task`" + `, ` + "`calendar_month`" + `.
- CRM: ` + "`list_contacts`" + `, ` + "`save_contact`" + `, ` + "`delete_contact`" + `.
- Finances: ` + "`finances`" + `, ` + "`save_transaction`" + `, ` + "`delete_transaction`" + `.
- Flowcharts: ` + "`list_flowcharts`" + `, ` + "`select_flowchart`" + `, ` + "`save_flowchart`" + `, ` + "`delete_flowchart`" + `.

## Consistency

Lists are snapshots. After a save, the new entity appears once the store pushes; a read immediately after a write may not include it yet. Two writers editing the same entity: last write wins.

See ` + "`backoffice://docs/entities`" + ` for fields and defaults.
`,
	},
	{
		URI:         "backoffice://docs/entities",
		Name:        "docs_entities",
		Title:       "Entities, fields and defaults",
		Description: "Fields of each entity with validation rules and the defaults applied on save.",
		Content: `# Entities

## Project
- ` + "`name`" + ` (required). Deleting a project keeps its tasks.

## Task
- ` + "`title`" + ` (required), ` + "`description`" + `, ` + "`due_date`" + ` (YYYY-MM-DD), ` + "`estimated_time`" + ` (hours, numeric), ` + "`deliverable_link`" + `.
- ` + "`status`" + `: To Do | In Progress | Done. New tasks default to To Do.
- ` + "`project_id`" + `: defaults to the selected project. A task without a project is rejected.

## Contact
- ` + "`name`" + ` (required), ` + "`email`" + ` (required), ` + "`notes`" + `.
- ` + "`source`" + `: YouTube | Instagram | Website | Referral | Other, default YouTube.

## Transaction
- ` + "`description`" + ` (required), ` + "`amount`" + ` (required, numeric).
- ` + "`type`" + `: income | expense, default income.
- ` + "`date`" + `: YYYY-MM-DD, default today.
- ` + "`category`" + `: default Product Sale for income, Software for expense.
- Stored amounts that are not numbers count as 0 in totals.

## Flowchart
- ` + "`name`" + ` (required), ` + "`steps`" + `: ordered descriptions; blank steps are dropped on save.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
