package models

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

// tableModels maps table names to their model structs, in dependency order.
var tableModels = []struct {
	table string
	model interface{}
}{
	{"employees", Employee{}},
	{"projects", Project{}},
	{"project_departments", ProjectDepartment{}},
	{"project_team_members", ProjectTeamMember{}},
	{"project_vendors", ProjectVendor{}},
	{"key_steps", KeyStep{}},
	{"project_tasks", ProjectTask{}},
	{"task_members", TaskMember{}},
	{"subtasks", Subtask{}},
	{"subtask_members", SubtaskMember{}},
}

// Migrate runs AutoMigrate for every tracked entity.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	targets := make([]interface{}, 0, len(tableModels))
	for _, tm := range tableModels {
		m := reflect.New(reflect.TypeOf(tm.model)).Interface()
		targets = append(targets, m)
	}

	if err := migrateDB.AutoMigrate(targets...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}

// ColumnMismatchReport lists, per table, database columns that no model field
// accounts for. Useful after schema drifts introduced by manual migrations.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)

	for _, tm := range tableModels {
		dbColumns, err := tableColumns(db, tm.table)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				continue
			}
			return nil, err
		}

		known := make(map[string]bool)
		for _, f := range modelColumns(tm.model) {
			known[f] = true
		}

		var mismatches []string
		for _, col := range dbColumns {
			if !known[col] {
				mismatches = append(mismatches, col)
			}
		}
		if len(mismatches) > 0 {
			report[tm.table] = mismatches
		}
	}

	return report, nil
}

func tableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("querying columns for table %s: %w", tableName, err)
	}

	if len(columns) == 0 {
		var tableExists bool
		tableQuery := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = CURRENT_SCHEMA()
				AND table_name = ?
			)
		`
		if err := db.Raw(tableQuery, tableName).Scan(&tableExists).Error; err != nil {
			return nil, fmt.Errorf("checking if table %s exists: %w", tableName, err)
		}
		if !tableExists {
			return nil, fmt.Errorf("table %s does not exist", tableName)
		}
	}

	return columns, nil
}

// modelColumns derives column names from a model struct's db tags.
func modelColumns(model interface{}) []string {
	var fields []string
	t := reflect.TypeOf(model)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if col := field.Tag.Get("db"); col != "" {
			fields = append(fields, col)
		}
	}

	return fields
}
