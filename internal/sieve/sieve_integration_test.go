//go:build integration

package sieve

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

func TestRunAgainstLiveMysqldumpIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("dbsake_fixture"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))

	_, err = db.ExecContext(ctx, `CREATE TABLE customers (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(128) NOT NULL
	) ENGINE=InnoDB`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO customers (email) VALUES ('a@example.com'), ('b@example.com')`)
	require.NoError(t, err)

	exitCode, reader, err := container.Exec(ctx, []string{
		"sh", "-c",
		"mysqldump -uroot -ptestpass dbsake_fixture > /tmp/fixture.sql",
	})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "mysqldump exited non-zero")
	_ = reader

	rc, err := container.CopyFileFromContainer(ctx, "/tmp/fixture.sql")
	require.NoError(t, err, "failed to copy mysqldump output out of the container")
	defer rc.Close()

	var dump bytes.Buffer
	_, err = dump.ReadFrom(rc)
	require.NoError(t, err)

	var out bytes.Buffer
	writer := NewStreamWriter(&out)
	runErr := Run(&dump, Options{Writer: writer})
	require.NoError(t, runErr)

	output := out.String()
	assert.Contains(t, output, "customers")
	assert.Contains(t, output, "CREATE TABLE")
	assert.Contains(t, output, "INSERT INTO")
}
