package commands

import (
	"encoding/json"
	"fmt"

	"github.com/asaidimu/go-sqlbind/core/statement"
	"github.com/spf13/cobra"
)

func newInsertCommand(app *App) *cobra.Command {
	var table, data, key string

	cmd := &cobra.Command{
		Use:     "insert",
		Short:   "Insert one row",
		Example: `  sqlbind insert --table users --data '{"name": "ann", "age": 30}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := statement.ParseData([]byte(data))
			if err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
			if app.DryRun {
				stmt, err := statement.Insert(table, payload)
				if err != nil {
					return err
				}
				return printStatement(cmd.OutOrStdout(), stmt)
			}

			executor, err := app.connect()
			if err != nil {
				return err
			}
			id, err := executor.InsertWithKey(cmd.Context(), table, payload, key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to insert into")
	cmd.Flags().StringVar(&data, "data", "", "JSON object of column values")
	cmd.Flags().StringVar(&key, "key", "", "Key column or sequence reporting the generated id")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newUpdateCommand(app *App) *cobra.Command {
	var table, data, where string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update the rows matching --where",
		Example: `  sqlbind update --table users --data '{"age": 31}' --where '[["name", "ann"]]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := statement.ParseData([]byte(data))
			if err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
			conds, err := parseWhere(where)
			if err != nil {
				return err
			}
			if app.DryRun {
				stmt, err := statement.Update(table, payload, conds)
				if err != nil {
					return err
				}
				return printStatement(cmd.OutOrStdout(), stmt)
			}

			executor, err := app.connect()
			if err != nil {
				return err
			}
			affected, err := executor.Update(cmd.Context(), table, payload, conds)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) updated\n", affected)
			return err
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to update")
	cmd.Flags().StringVar(&data, "data", "", "JSON object of column values")
	cmd.Flags().StringVar(&where, "where", "", "JSON list of condition tuples")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newSelectCommand(app *App) *cobra.Command {
	var table, options string
	var column bool

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select rows and print them as JSON",
		Example: `  sqlbind select --table users --options '{"field": ["name"], "where": [["age", ">", 18]], "limit": 10}'
  sqlbind select --table users --options '{"field": ["name"]}' --column`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts statement.Options
			if options != "" {
				if err := json.Unmarshal([]byte(options), &opts); err != nil {
					return fmt.Errorf("invalid --options: %w", err)
				}
			}
			if app.DryRun {
				return printStatement(cmd.OutOrStdout(), statement.Select(table, opts))
			}

			executor, err := app.connect()
			if err != nil {
				return err
			}
			if column {
				values, err := executor.SelectColumn(cmd.Context(), table, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), values)
			}
			rows, err := executor.Select(cmd.Context(), table, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to select from")
	cmd.Flags().StringVar(&options, "options", "", "JSON object with field, join, where, order, group and limit")
	cmd.Flags().BoolVar(&column, "column", false, "Print only the first column of every row")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newDeleteCommand(app *App) *cobra.Command {
	var table, where string

	cmd := &cobra.Command{
		Use:     "delete",
		Short:   "Delete the rows matching --where",
		Example: `  sqlbind delete --table users --where '[["id", 3]]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conds, err := parseWhere(where)
			if err != nil {
				return err
			}
			if app.DryRun {
				stmt, err := statement.Delete(table, conds)
				if err != nil {
					return err
				}
				return printStatement(cmd.OutOrStdout(), stmt)
			}

			executor, err := app.connect()
			if err != nil {
				return err
			}
			affected, err := executor.Delete(cmd.Context(), table, conds)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) deleted\n", affected)
			return err
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to delete from")
	cmd.Flags().StringVar(&where, "where", "", "JSON list of condition tuples")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func parseWhere(where string) ([]statement.Condition, error) {
	if where == "" {
		return nil, nil
	}
	conds, err := statement.ParseConditions([]byte(where))
	if err != nil {
		return nil, fmt.Errorf("invalid --where: %w", err)
	}
	return conds, nil
}
