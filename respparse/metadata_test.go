package respparse

import "testing"

const uuid1 = "e8a5a4b0-4f2e-4b9e-9d2a-6a9a3f9a1234"

func TestExtractMetadataLastFencedYAMLWins(t *testing.T) {
	raw := "```yaml\nprojectId: earlier\nuuid: " + uuid1 + "\n```\n\nsome reasoning\n\n```yaml\nprojectId: later\nuuid: " + uuid1 + "\n```\n"
	ctrl, residual, ok := extractMetadata(raw)
	if !ok {
		t.Fatal("expected success")
	}
	if ctrl.ProjectID != "later" {
		t.Errorf("ProjectID = %q, want later", ctrl.ProjectID)
	}
	if residual == "" {
		t.Error("residual should retain the reasoning text")
	}
}

func TestExtractMetadataInvalidLastBlockDoesNotFallBackToEarlierValidFence(t *testing.T) {
	raw := "```yaml\nprojectId: earlier\nuuid: " + uuid1 + "\n```\n\n```yaml\nuuid: not-a-uuid\n```\n"
	if _, _, ok := extractMetadata(raw); ok {
		t.Fatal("an invalid last fence should not fall back to an earlier valid one")
	}
}

func TestExtractMetadataBareTail(t *testing.T) {
	raw := "some reasoning here\n\nprojectId: proj\nuuid: " + uuid1 + "\n"
	ctrl, residual, ok := extractMetadata(raw)
	if !ok {
		t.Fatal("expected success via the bare-tail strategy")
	}
	if ctrl.ProjectID != "proj" {
		t.Errorf("ProjectID = %q, want proj", ctrl.ProjectID)
	}
	if residual != "some reasoning here" {
		t.Errorf("residual = %q, want %q", residual, "some reasoning here")
	}
}

func TestExtractMetadataGivesUp(t *testing.T) {
	if _, _, ok := extractMetadata("nothing resembling a control block here"); ok {
		t.Fatal("expected failure")
	}
}
