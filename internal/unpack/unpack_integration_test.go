//go:build integration

package unpack

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

// .frm-backed datadirs were retired in MySQL 8.0; unpack's filename
// classification targets that on-disk layout, so this fixture pins a
// pre-8.0 server the same way internal/frm's integration fixture does.
const unpackFixtureImage = "mysql:5.7"

func TestRunAgainstLiveDatadirTarIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := mysql.Run(ctx, unpackFixtureImage,
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

	_, err = db.ExecContext(ctx, `CREATE TABLE orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		total DECIMAL(10,2) NOT NULL
	) ENGINE=InnoDB`)
	require.NoError(t, err)

	exitCode, _, err := container.Exec(ctx, []string{
		"sh", "-c",
		"tar cf /tmp/fixture.tar -C /var/lib/mysql/dbsake_fixture .",
	})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "tar exited non-zero")

	rc, err := container.CopyFileFromContainer(ctx, "/tmp/fixture.tar")
	require.NoError(t, err, "failed to copy datadir tar out of the container")
	defer rc.Close()

	var archive bytes.Buffer
	_, err = archive.ReadFrom(rc)
	require.NoError(t, err)

	var seen []string
	runErr := Run(&archive, Options{
		ListOnly: true,
		OnPath: func(p string) {
			seen = append(seen, p)
		},
	})
	require.NoError(t, runErr)

	assert.Condition(t, func() bool {
		for _, p := range seen {
			if p == "orders.frm" {
				return true
			}
		}
		return false
	}, "expected orders.frm among unpacked entries, got %v", seen)
}
