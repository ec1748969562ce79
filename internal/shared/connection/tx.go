package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a gorm handle whose statements run on tx. Repositories call
// it from WithTx so services can own the transaction as a plain *sql.Tx.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	s := db.Session(&gorm.Session{NewDB: true})
	s.Statement.ConnPool = tx
	return s
}
