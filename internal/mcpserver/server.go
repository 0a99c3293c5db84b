// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes note store tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/noteservice"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

const contractURI = "notepad://addressing"

// Server wraps the MCP server with note store tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all note store tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"NotePad",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	noteArg := mcp.WithString("note", mcp.Required(), mcp.Description("Note id or content address (content://.../notes/{id})"))

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, newest first."),
		mcp.WithString("category", mcp.Description("Only notes in this category")),
		mcp.WithString("sort", mcp.Description(`Column and direction, e.g. "title ASC"`)),
		mcp.WithNumber("limit", mcp.Description("Max results (0 for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Find notes whose title contains the query, ignoring case. "+
			"With full_text, every word must appear in the title or body and each result carries a snippet."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Title fragment, or words when full_text is set")),
		mcp.WithBoolean("full_text", mcp.Description("Search bodies as well as titles")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read a note with its title, body, category and checksum."),
		noteArg,
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. Without a title one is derived from the body. "+
			"Read the addressing contract (get_addressing_contract or "+contractURI+") for the rules."),
		mcp.WithString("body", mcp.Required(), mcp.Description("Note text")),
		mcp.WithString("title", mcp.Description("Optional title")),
		mcp.WithString("category", mcp.Description("Existing category name")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Change the title, body or category of a note. Omitted fields are kept."),
		noteArg,
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("body", mcp.Description("New body")),
		mcp.WithString("category", mcp.Description("New category name; empty clears it")),
		mcp.WithString("if_match", mcp.Description("Checksum from a previous read; the update fails if the body changed since")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note."),
		noteArg,
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List categories with their note counts."),
		mcp.WithString("filter", mcp.Description(`Name glob such as "w*"; plain text matches anywhere`)),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("create_category",
		mcp.WithDescription("Create a category. Names are unique."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name")),
		mcp.WithString("color", mcp.Description("#RGB, #RRGGBB or #AARRGGBB; defaults to the configured color")),
	), s.createCategory)

	s.mcp.AddTool(mcp.NewTool("assign_category",
		mcp.WithDescription("Move a note into an existing category, or clear it with an empty name."),
		noteArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name; empty clears it")),
	), s.assignCategory)

	s.mcp.AddTool(mcp.NewTool("get_type",
		mcp.WithDescription("Return the MIME type of a content address."),
		mcp.WithString("uri", mcp.Required(), mcp.Description("content:// address")),
	), s.getType)

	s.mcp.AddTool(mcp.NewTool("export_note",
		mcp.WithDescription("Write a note body to a file in the documents directory."),
		noteArg,
		mcp.WithString("dest", mcp.Required(), mcp.Description("Destination path relative to the documents directory")),
	), s.exportNote)

	s.mcp.AddTool(mcp.NewTool("get_addressing_contract",
		mcp.WithDescription("Returns the content address scheme and store rules. "+
			"Call this before creating or updating notes."),
	), s.getAddressingContract)

	// Resource: addressing contract.
	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Addressing Contract",
			mcp.WithResourceDescription("Content addresses, MIME types and store rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	// Resource template: notes by content address.
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(uri.Scheme+"://"+svc.Resolver().Authority()+"/notes/{id}", "Note",
			mcp.WithTemplateDescription("Body of a single note."),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		s.readNoteResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// noteID accepts a decimal id or a note item address.
func (s *Server) noteID(ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}
	addr, err := s.svc.Resolver().Parse(ref)
	if err != nil {
		return 0, err
	}
	if addr.Kind != uri.NotesItem {
		return 0, fmt.Errorf("%s is not a note address: %w", ref, apperr.ErrUnsupportedAddress)
	}
	return addr.ID, nil
}

// optional returns a pointer to the string argument key, or nil when absent.
func optional(req mcp.CallToolRequest, key string) *string {
	if v, ok := req.GetArguments()[key].(string); ok {
		return &v
	}
	return nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.ListNotes(ctx, noteservice.ListOptions{
		Category: req.GetString("category", ""),
		Sort:     req.GetString("sort", ""),
		Limit:    req.GetInt("limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 20)
	if req.GetBool("full_text", false) {
		hits, err := s.svc.SearchText(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(hits)
	}
	results, err := s.svc.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.noteID(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", ref)), nil
	}
	return jsonResult(note)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.CreateNote(ctx, noteservice.NoteInput{
		Title:    optional(req, "title"),
		Body:     &body,
		Category: optional(req, "category"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.URI)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.noteID(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := noteservice.NoteInput{
		Title:    optional(req, "title"),
		Body:     optional(req, "body"),
		Category: optional(req, "category"),
	}
	if in.Title == nil && in.Body == nil && in.Category == nil {
		return mcp.NewToolResultError("title, body or category is required"), nil
	}
	note, err := s.svc.UpdateNote(ctx, id, in, req.GetString("if_match", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.noteID(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteNote(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", ref)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.svc.ListCategories(ctx, req.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cats)
}

func (s *Server) createCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat, err := s.svc.CreateCategory(ctx, name, req.GetString("color", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cat)
}

func (s *Server) assignCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.noteID(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.AssignCategory(ctx, id, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) getType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	addr, err := s.svc.Resolver().Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mime, err := s.svc.Store().Type(addr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(mime), nil
}

func (s *Server) exportNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest, err := req.RequireString("dest")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.noteID(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Export(ctx, id, dest); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported: %s", dest)), nil
}

func (s *Server) getAddressingContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(AddressingContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     AddressingContract,
		},
	}, nil
}

func (s *Server) readNoteResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := s.noteID(req.Params.URI)
	if err != nil {
		return nil, err
	}
	note, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      note.URI,
			MIMEType: "text/plain",
			Text:     note.Body,
		},
	}, nil
}
