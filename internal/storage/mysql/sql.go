package mysql

const createStateTableSQL = `
CREATE TABLE IF NOT EXISTS client_state (
  k          VARCHAR(64)  NOT NULL PRIMARY KEY,
  v          MEDIUMTEXT   NOT NULL,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)
`

const upsertStateSQL = `
INSERT INTO client_state (k, v)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  v          = VALUES(v),
  updated_at = CURRENT_TIMESTAMP
`

const getStateSQL = `SELECT v FROM client_state WHERE k = ?`

const deleteStateSQL = `DELETE FROM client_state WHERE k = ?`
