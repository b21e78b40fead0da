package api

import (
	"github.com/scriptmark-labs/scriptmark/internal/config"
	"github.com/scriptmark-labs/scriptmark/pkg/openapi"
)

// BuildSpec generates the OpenAPI specification for the API module.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec("Scriptmark API", cfg.Version)
	spec.SetDescription("Automated exam script marking service for scanned PDF submissions.")
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(executionSchemas())
	registerExecutionPaths(spec)
	registerStoragePaths(spec)

	return spec
}

func executionSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Execution": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                     {Type: "string", Format: "uuid"},
				"scripts_key":            {Type: "string", Description: "Storage key of the submission scripts PDF"},
				"standard_answer_key":    {Type: "string", Description: "Storage key of the standard answer PDF"},
				"skip_rotation":          {Type: "boolean", Description: "Bypass orientation correction"},
				"status":                 {Type: "string", Enum: []any{"PENDING", "RUNNING", "SUCCEEDED", "FAILED"}},
				"error":                  {Type: "string"},
				"scripts_job_id":         {Type: "string"},
				"standard_answer_job_id": {Type: "string"},
				"marks_key":              {Type: "string", Description: "Storage key of the generated mark sheet"},
				"total_marks":            {Type: "integer"},
				"max_marks":              {Type: "integer"},
				"created_at":             {Type: "string", Format: "date-time"},
				"updated_at":             {Type: "string", Format: "date-time"},
				"completed_at":           {Type: "string", Format: "date-time"},
			},
		},
		"CreateExecution": {
			Type:     "object",
			Required: []string{"scripts_key", "standard_answer_key"},
			Properties: map[string]*openapi.Schema{
				"scripts_key":         {Type: "string"},
				"standard_answer_key": {Type: "string"},
				"skip_rotation":       {Type: "boolean"},
			},
		},
		"ExecutionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Execution")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"MarkSheet": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"questions":    {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"total_marks":  {Type: "integer"},
				"max_marks":    {Type: "integer"},
				"percentage":   {Type: "number"},
				"generated_at": {Type: "string", Format: "date-time"},
			},
		},
		"StorageObject": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":            {Type: "string"},
				"content_type":   {Type: "string"},
				"content_length": {Type: "integer"},
				"last_modified":  {Type: "string", Format: "date-time"},
			},
		},
	}
}

func registerExecutionPaths(spec *openapi.Spec) {
	spec.Paths["/executions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List executions",
			Tags:    []string{"executions"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search across document keys", false),
				openapi.QueryParam("status", "string", "Filter by status", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Execution page", "ExecutionPage"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create execution",
			Description: "Registers a marking run and launches it in the background.",
			Tags:        []string{"executions"},
			RequestBody: openapi.RequestBodyJSON("CreateExecution", true),
			Responses: map[int]*openapi.Response{
				202: openapi.ResponseJSON("Accepted execution", "Execution"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/executions/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search executions",
			Tags:        []string{"executions"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Execution page", "ExecutionPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/executions/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find execution",
			Tags:       []string{"executions"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Execution ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Execution", "Execution"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:     "Delete execution",
			Description: "Removes a terminal execution and its mark sheet.",
			Tags:        []string{"executions"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Execution ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/executions/{id}/marks"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download mark sheet",
			Tags:       []string{"executions"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Execution ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Mark sheet", "MarkSheet"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func registerStoragePaths(spec *openapi.Spec) {
	keyParam := &openapi.Parameter{
		Name:        "key",
		In:          "path",
		Required:    true,
		Description: "Object storage key",
		Schema:      &openapi.Schema{Type: "string"},
	}

	spec.Paths["/storage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List objects",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker", false),
				openapi.QueryParam("max_results", "integer", "Page size", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Object list"},
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload object",
			Description: "Stages a source document via multipart form. Fields: key, file.",
			Tags:        []string{"storage"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored object", "StorageObject"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/storage/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Object metadata",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Object metadata", "StorageObject"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete object",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download object",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				200: {Description: "Object stream"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}
