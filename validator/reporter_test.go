package validator

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResult_MergeAndSeverities(t *testing.T) {
	a := NewResult()
	a.AddWarning("rule_w", "a warning", "/p")

	b := NewResult()
	b.AddError("rule_e", "an error", "/p", Detail{"key": "value"})
	b.AddInfo("rule_i", "a note", "")

	a.Merge(b)

	if a.Valid {
		t.Fatal("merging an invalid result must invalidate the target")
	}
	if len(a.Errors) != 1 || len(a.Warnings) != 1 || len(a.Info) != 1 {
		t.Fatalf("unexpected counts: %+v", a)
	}
	if a.Errors[0].Detail["key"] != "value" {
		t.Fatalf("detail lost in merge: %+v", a.Errors[0])
	}
}

func TestMessage_String(t *testing.T) {
	m := Message{RuleID: "some_rule", Severity: SeverityError, Message: "broken", Path: "/a/b"}
	if got := m.String(); got != "[some_rule] broken at /a/b" {
		t.Fatalf("unexpected rendering: %q", got)
	}

	m.Path = ""
	if got := m.String(); got != "[some_rule] broken" {
		t.Fatalf("unexpected pathless rendering: %q", got)
	}
}

func TestBuildReport_NonNilSlices(t *testing.T) {
	report := BuildReport(NewResult())
	if !report.Valid {
		t.Fatal("empty result should be valid")
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "null") {
		t.Fatalf("report slices must encode as arrays, got %s", out)
	}
}

func TestPrettyReporter_Renders(t *testing.T) {
	res := NewResult()
	res.AddError("root_is_physical_property", "wrong root element", "/WrongRoot")
	res.AddWarning("class_no_empty_children", "odd child", "/PhysicalProperty")

	var sb strings.Builder
	r := PrettyReporter{Writer: &sb}
	r.Report("feed.xml", res)

	out := sb.String()
	for _, want := range []string{"root_is_physical_property", "class_no_empty_children", "error", "warning", "feed.xml"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSONReporter_Encodes(t *testing.T) {
	res := NewResult()
	res.AddError("xml_wellformed", "broken", "")

	var sb strings.Builder
	r := JSONReporter{Writer: &sb}
	if err := r.Report(res); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	var report Report
	if err := json.Unmarshal([]byte(sb.String()), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Valid || len(report.Errors) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
