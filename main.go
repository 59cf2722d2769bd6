package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/asaidimu/go-sqlbind/core/persistence"
	"github.com/asaidimu/go-sqlbind/core/statement"
	"github.com/asaidimu/go-sqlbind/sqlite"
	"github.com/asaidimu/go-sqlbind/utils"
	"go.uber.org/zap"
)

const (
	dbFileName  = "user.db"
	usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	age INTEGER,
	is_active INTEGER NOT NULL DEFAULT 1
)`
)

type User struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	IsActive bool   `json:"is_active"`
}

func main() {
	ctx := context.Background()
	_ = os.Remove(dbFileName)
	defer os.Remove(dbFileName)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	connector := sqlite.NewConnector(sqlite.DefaultConfig(dbFileName), logger)
	conn, err := connector.Open(ctx)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := conn.ExecScript(ctx, usersSchema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	conn.Close()

	executor, err := persistence.NewExecutor(connector, &persistence.ExecutorOptions{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create executor: %v", err)
	}
	defer executor.Close()

	executor.Subscribe(persistence.InsertSuccess, func(ctx context.Context, event persistence.StatementEvent) error {
		fmt.Printf("event %s: %s -> id %v\n", event.Type, event.SQL, event.Output)
		return nil
	})

	fmt.Println("\n--- Inserting users ---")
	users := []User{
		{Name: "Alice Smith", Email: "alice@example.com", Age: 30, IsActive: true},
		{Name: "Bob Johnson", Email: "bob@example.com", Age: 24, IsActive: true},
		{Name: "Charlie Brown", Email: "charlie@example.com", Age: 41, IsActive: false},
	}
	for _, u := range users {
		id, err := executor.InsertRecord(ctx, "users", u)
		if err != nil {
			log.Fatalf("Failed to insert %s: %v", u.Name, err)
		}
		fmt.Printf("Inserted %s with id %s\n", u.Name, id)
	}

	fmt.Println("\n--- Active users older than 25 ---")
	opts := statement.NewQueryBuilder().
		Fields("id", "name", "email", "age").
		Where("is_active").Eq(true).
		And("age").Gt(25).
		OrderByAsc("name").
		Limit(10).
		Build()
	rows, err := executor.Select(ctx, "users", opts)
	if err != nil {
		log.Fatalf("Failed to select users: %v", err)
	}
	for _, row := range rows {
		u, err := utils.MapToStruct[User](row)
		if err != nil {
			log.Fatalf("Failed to decode row: %v", err)
		}
		fmt.Printf("%+v\n", u)
	}

	fmt.Println("\n--- Deactivating Bob ---")
	affected, err := executor.Update(ctx, "users",
		map[string]any{"is_active": false},
		statement.Conditions(statement.Where("email", "bob@example.com")))
	if err != nil {
		log.Fatalf("Failed to update: %v", err)
	}
	fmt.Printf("Updated %d row(s)\n", affected)

	fmt.Println("\n--- Removing inactive users ---")
	affected, err = executor.Delete(ctx, "users", statement.Conditions(statement.Where("is_active", false)))
	if err != nil {
		log.Fatalf("Failed to delete: %v", err)
	}
	fmt.Printf("Deleted %d row(s)\n", affected)

	names, err := executor.SelectColumn(ctx, "users", statement.Options{
		Field: statement.Structured([]string{"name"}),
	})
	if err != nil {
		log.Fatalf("Failed to list names: %v", err)
	}
	fmt.Printf("Remaining: %v\n", names)
}
