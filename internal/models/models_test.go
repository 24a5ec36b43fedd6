package models

import (
	"encoding/json"
	"testing"
)

func TestDonenessValid(t *testing.T) {
	for _, d := range Donenesses {
		if !d.Valid() {
			t.Fatalf("%q should be valid", d)
		}
	}
	if Doneness("all").Valid() {
		t.Fatalf("unexpected valid doneness")
	}
}

func TestOnlySucceededCountsAsSuccess(t *testing.T) {
	states := []TaskState{StatePending, StateRunning, StateCanceling, StateCanceled, StateErrored, StateFailing, StateFailed}
	for _, s := range states {
		if s.Succeeded() {
			t.Fatalf("%q must not count as succeeded", s)
		}
	}
	if !StateSucceeded.Succeeded() {
		t.Fatalf("succeeded must count as succeeded")
	}
}

func TestTaskDecodesServerShape(t *testing.T) {
	raw := `{"id":12,"name":"copy [/a](/b/c) to [/d](/e)","state":"errored","status":"","progress":37.5,"error":"io timeout"}`
	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.ID != 12 || task.State != StateErrored || task.Progress != 37.5 || task.Error != "io timeout" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestCopyRequestWireNames(t *testing.T) {
	data, err := json.Marshal(CopyRequest{SrcDir: "/a/b", DstDir: "/d/e", Names: []string{"c"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"src_dir":"/a/b","dst_dir":"/d/e","names":["c"]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestBulkRunOK(t *testing.T) {
	if !(BulkRun{Total: 3}).OK() {
		t.Fatalf("run without failures should be OK")
	}
	if (BulkRun{Total: 3, Failed: 1}).OK() {
		t.Fatalf("run with failures should not be OK")
	}
}
