// Package exporter writes dashboard view-models to files people open
// outside the browser.
//
// CSVWriter writes delimited text with an optional UTF-8 BOM so Excel picks
// the right encoding; WriteTeamDetailCSV uses it for the formatted team
// table. WriteWorkbook renders a whole Overview as an XLSX workbook with
// one sheet per view. WriteJSON dumps an Overview for the report command.
//
// Example usage:
//
//	ov := dashboard.Overview(ctx)
//	if err := exporter.WriteWorkbook(w, ov); err != nil {
//	    return err
//	}
package exporter
