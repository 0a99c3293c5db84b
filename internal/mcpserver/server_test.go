package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Lobco894/NotePad-new-master/internal/models"
	"github.com/Lobco894/NotePad-new-master/internal/noteservice"
	"github.com/Lobco894/NotePad-new-master/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	store := testutil.TestStore(t)
	docsDir, docs := testutil.TestDocuments(t)
	return New(noteservice.NewService(store, docs)), docsDir
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handlers are
	// called directly.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"list_notes":              srv.listNotes,
		"search_notes":            srv.searchNotes,
		"get_note":                srv.getNote,
		"create_note":             srv.createNote,
		"update_note":             srv.updateNote,
		"delete_note":             srv.deleteNote,
		"list_categories":         srv.listCategories,
		"create_category":         srv.createCategory,
		"assign_category":         srv.assignCategory,
		"get_type":                srv.getType,
		"export_note":             srv.exportNote,
		"get_addressing_contract": srv.getAddressingContract,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultJSON[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return v
}

const notesURI = "content://com.google.provider.NotePad/notes"

func TestCreateAndGetNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{"body": "Call the bank tomorrow morning please"})
	if text := resultText(r); text != "created: "+notesURI+"/1" {
		t.Fatalf("create result = %q", text)
	}

	for _, ref := range []string{"1", notesURI + "/1"} {
		note := resultJSON[models.Note](t, callTool(t, srv, "get_note", map[string]interface{}{"note": ref}))
		if note.Title != "Call the bank tomorrow" || note.Body != "Call the bank tomorrow morning please" {
			t.Errorf("get_note(%s) = %+v", ref, note)
		}
	}
}

func TestGetNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	for _, ref := range []string{"7", notesURI + "/7", "content://com.google.provider.NotePad/categories/1", "content://other/notes/1"} {
		if r := callTool(t, srv, "get_note", map[string]interface{}{"note": ref}); !r.IsError {
			t.Errorf("get_note(%s): expected error", ref)
		}
	}
}

func TestUpdateNote(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{"title": "Plan", "body": "v1"})
	created := resultJSON[models.Note](t, callTool(t, srv, "get_note", map[string]interface{}{"note": "1"}))

	updated := resultJSON[models.Note](t, callTool(t, srv, "update_note", map[string]interface{}{
		"note": "1", "body": "v2", "if_match": created.Checksum,
	}))
	if updated.Body != "v2" || updated.Title != "Plan" {
		t.Errorf("updated = %+v", updated)
	}

	r := callTool(t, srv, "update_note", map[string]interface{}{"note": "1", "body": "v3", "if_match": created.Checksum})
	if !r.IsError || !strings.Contains(resultText(r), "conflict") {
		t.Errorf("stale if_match: %q", resultText(r))
	}
	if r := callTool(t, srv, "update_note", map[string]interface{}{"note": "1"}); !r.IsError {
		t.Error("update with no fields should fail")
	}
}

func TestListSearchAndDelete(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{"body": "Groceries"})
	callTool(t, srv, "create_note", map[string]interface{}{"body": "Work plan"})

	notes := resultJSON[[]models.Note](t, callTool(t, srv, "list_notes", map[string]interface{}{}))
	if len(notes) != 2 {
		t.Fatalf("list_notes = %d, want 2", len(notes))
	}
	notes = resultJSON[[]models.Note](t, callTool(t, srv, "list_notes", map[string]interface{}{"limit": float64(1)}))
	if len(notes) != 1 {
		t.Errorf("list_notes limit 1 = %d", len(notes))
	}

	found := resultJSON[[]models.Note](t, callTool(t, srv, "search_notes", map[string]interface{}{"query": "groc"}))
	if len(found) != 1 || found[0].Title != "Groceries" {
		t.Errorf("search = %+v", found)
	}
	hits := resultJSON[[]models.TextHit](t, callTool(t, srv, "search_notes", map[string]interface{}{"query": "plan", "full_text": true}))
	if len(hits) != 1 || hits[0].Title != "Work plan" || hits[0].Snippet == "" {
		t.Errorf("full-text search = %+v", hits)
	}

	if r := callTool(t, srv, "delete_note", map[string]interface{}{"note": "1"}); r.IsError {
		t.Fatalf("delete: %s", resultText(r))
	}
	if r := callTool(t, srv, "delete_note", map[string]interface{}{"note": "1"}); !r.IsError {
		t.Error("second delete should fail")
	}
}

func TestCategories(t *testing.T) {
	srv, _ := testServer(t)
	cat := resultJSON[models.Category](t, callTool(t, srv, "create_category", map[string]interface{}{"name": "Work", "color": "#336699"}))
	if cat.Color != "#336699" {
		t.Errorf("color = %q", cat.Color)
	}
	if r := callTool(t, srv, "create_category", map[string]interface{}{"name": "Work"}); !r.IsError {
		t.Error("duplicate category should fail")
	}

	callTool(t, srv, "create_note", map[string]interface{}{"body": "standup"})
	note := resultJSON[models.Note](t, callTool(t, srv, "assign_category", map[string]interface{}{"note": notesURI + "/1", "name": "Work"}))
	if note.Category != "Work" {
		t.Errorf("category = %q", note.Category)
	}

	cats := resultJSON[[]models.Category](t, callTool(t, srv, "list_categories", map[string]interface{}{"filter": "wo"}))
	if len(cats) != 1 || cats[0].Count != 1 {
		t.Errorf("categories = %+v", cats)
	}
	cats = resultJSON[[]models.Category](t, callTool(t, srv, "list_categories", map[string]interface{}{"filter": "home*"}))
	if len(cats) != 0 {
		t.Errorf("unmatched filter = %+v", cats)
	}

	if r := callTool(t, srv, "assign_category", map[string]interface{}{"note": "1", "name": "Missing"}); !r.IsError {
		t.Error("assigning a missing category should fail")
	}
}

func TestGetType(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_type", map[string]interface{}{"uri": notesURI + "/3"})
	if text := resultText(r); text != "vnd.android.cursor.item/vnd.google.note" {
		t.Errorf("type = %q", text)
	}
	if r := callTool(t, srv, "get_type", map[string]interface{}{"uri": "content://com.google.provider.NotePad/live_folders/notes"}); !r.IsError {
		t.Error("unsupported address should fail")
	}
}

func TestExportNote(t *testing.T) {
	srv, docsDir := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{"body": "exported"})

	if r := callTool(t, srv, "export_note", map[string]interface{}{"note": "1", "dest": "out.txt"}); r.IsError {
		t.Fatalf("export: %s", resultText(r))
	}
	data, err := os.ReadFile(filepath.Join(docsDir, "out.txt"))
	if err != nil || string(data) != "exported" {
		t.Errorf("exported = %q, %v", data, err)
	}
}

func TestAddressingContract(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_addressing_contract", nil))
	if !strings.Contains(text, "vnd.android.cursor.dir/vnd.google.note") {
		t.Error("contract should list MIME types")
	}

	res, err := srv.readContractResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(res) != 1 {
		t.Fatalf("resource = %v, %v", res, err)
	}
}

func TestReadNoteResource(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{"body": "resource body"})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = notesURI + "/1"
	res, err := srv.readNoteResource(context.Background(), req)
	if err != nil || len(res) != 1 {
		t.Fatalf("resource = %v, %v", res, err)
	}
	if tc, ok := res[0].(mcp.TextResourceContents); !ok || tc.Text != "resource body" {
		t.Errorf("contents = %+v", res[0])
	}
}
