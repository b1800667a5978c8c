package request_models

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestSelectModulesRequest_ClosedCatalogAtBinding(t *testing.T) {
	var req SelectModulesRequest
	if err := binding.JSON.BindBody([]byte(`{"moduleKeys":["MODULE_9"]}`), &req); err == nil {
		t.Error("unknown module key should fail binding")
	}

	req = SelectModulesRequest{}
	if err := binding.JSON.BindBody([]byte(`{"moduleKeys":["MODULE_1"],"subModuleKeys":["COFFRAGE"]}`), &req); err == nil {
		t.Error("unknown sub-module key should fail binding")
	}

	req = SelectModulesRequest{}
	if err := binding.JSON.BindBody([]byte(`{"moduleKeys":["MODULE_1","MODULE_2"],"subModuleKeys":["FERRAILLAGE"]}`), &req); err != nil {
		t.Errorf("valid selection rejected: %v", err)
	}
}

func TestModulesSelectRequest_AllowsEmptySets(t *testing.T) {
	var req ModulesSelectRequest
	if err := binding.JSON.BindBody([]byte(`{"moduleKeys":[],"subModuleKeys":[]}`), &req); err != nil {
		t.Fatalf("empty sets must pass binding so the service can answer with its own codes: %v", err)
	}
	if err := binding.JSON.BindBody([]byte(`{"moduleKeys":["MODULE_9"]}`), &req); err == nil {
		t.Error("unknown module key should still fail binding")
	}
}
