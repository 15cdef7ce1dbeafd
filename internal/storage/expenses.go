package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/model"
)

const expenseColumns = `id, employee, department, amount, date, category, status, priority,
	description, hasComments, commentCount, submittedAt, submittedBy, files`

// ListExpenses returns every stored expense, most recently submitted first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY submittedAt DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		expenses = append(expenses, *expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// GetExpense retrieves a single expense by ID.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// CreateExpense stores a new expense, assigning an ID, status, and priority
// where the client omitted them. Writes are upserts: creating with an
// existing ID replaces that row rather than adding a second one.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, record model.Expense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	// The server substitutes fewer defaults than the submitting client:
	// only the id, review status, and priority. Descriptive fields the
	// client omitted are stored as given.
	if record.ID == "" {
		record.ID = model.NewID(time.Now())
	}
	if record.Status == "" {
		record.Status = model.StatusPending
	}
	if record.Priority == "" {
		record.Priority = model.PriorityMedium
	}

	if err := s.upsertExpense(ctx, record); err != nil {
		return nil, err
	}

	return s.GetExpense(ctx, record.ID)
}

// UpdateExpense applies a merge-patch to an existing expense and returns the
// updated record. The row is replaced wholesale after merging in the
// application layer; there is no partial SQL update.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id string, patch model.Patch) (*model.Expense, error) {
	existing, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(existing)

	if err := s.upsertExpense(ctx, *existing); err != nil {
		return nil, err
	}

	return s.GetExpense(ctx, existing.ID)
}

func (s *SQLiteStorage) upsertExpense(ctx context.Context, record model.Expense) error {
	files := record.Files
	if files == nil {
		files = []model.Attachment{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("failed to encode files for expense %s: %w", record.ID, err)
	}

	hasComments := 0
	if record.HasComments {
		hasComments = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Employee,
		record.Department,
		float64(record.Amount),
		record.Date,
		record.Category,
		string(record.Status),
		string(record.Priority),
		record.Description,
		hasComments,
		record.CommentCount,
		record.SubmittedAt,
		record.SubmittedBy,
		string(filesJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert expense %s: %w", record.ID, err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var (
		expense      model.Expense
		employee     sql.NullString
		department   sql.NullString
		amount       sql.NullFloat64
		date         sql.NullString
		category     sql.NullString
		status       sql.NullString
		priority     sql.NullString
		description  sql.NullString
		hasComments  sql.NullInt64
		commentCount sql.NullInt64
		submittedAt  sql.NullString
		submittedBy  sql.NullString
		files        sql.NullString
	)

	err := row.Scan(
		&expense.ID,
		&employee,
		&department,
		&amount,
		&date,
		&category,
		&status,
		&priority,
		&description,
		&hasComments,
		&commentCount,
		&submittedAt,
		&submittedBy,
		&files,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	expense.Employee = employee.String
	expense.Department = department.String
	expense.Amount = model.Amount(amount.Float64)
	expense.Date = date.String
	expense.Category = category.String
	expense.Status = model.Status(status.String)
	expense.Priority = model.Priority(priority.String)
	expense.Description = description.String
	expense.HasComments = hasComments.Int64 != 0
	expense.CommentCount = int(commentCount.Int64)
	expense.SubmittedAt = submittedAt.String
	expense.SubmittedBy = submittedBy.String

	// A files column that fails to decode is treated as empty, not fatal.
	expense.Files = []model.Attachment{}
	if files.Valid && files.String != "" {
		var decoded []model.Attachment
		if jsonErr := json.Unmarshal([]byte(files.String), &decoded); jsonErr != nil {
			slog.Warn("Discarding undecodable files column",
				"expense_id", expense.ID,
				"error", jsonErr)
		} else if decoded != nil {
			expense.Files = decoded
		}
	}

	return &expense, nil
}
