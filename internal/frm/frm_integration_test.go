//go:build integration

package frm

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// .frm files were retired in MySQL 8.0 in favor of .sdi/data dictionary
// tables, so this fixture pins a pre-8.0 server where the format still
// exists on disk.
const frmFixtureImage = "mysql:5.7"

func TestDecodeBytesAgainstLiveServerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := mysql.Run(ctx, frmFixtureImage,
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

	_, err = db.ExecContext(ctx, `CREATE TABLE widgets (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0.00
	) ENGINE=InnoDB`)
	require.NoError(t, err, "failed to create fixture table")

	var datadir string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT @@datadir").Scan(&datadir))

	frmPath := fmt.Sprintf("%s/dbsake_fixture/widgets.frm", trimTrailingSlash(datadir))
	rc, err := container.CopyFileFromContainer(ctx, frmPath)
	require.NoError(t, err, "failed to copy widgets.frm out of the container")
	defer rc.Close()

	buf, err := io.ReadAll(rc)
	require.NoError(t, err)

	decoded, err := DecodeBytes(frmPath, buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.Table)

	ddl := decoded.SQL()
	assert.Contains(t, ddl, "widgets")
	assert.Contains(t, ddl, "`id`")
	assert.Contains(t, ddl, "`name`")
	assert.Contains(t, ddl, "`price`")
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
