// Package migrations はスキーマ移行用 SQL を埋め込みます。
package migrations

import "embed"

// FS はエンジンごとのディレクトリ (sqlite, postgres) を持つ移行ファイル群です。
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
