package employee

import "context"

// Repository は社員永続化の抽象です。各操作は独自の接続を開き、終了時に必ず閉じます。
type Repository interface {
	// List は変換できた社員をすべて返します。変換できない行は読み飛ばします。
	List(ctx context.Context) ([]*Employee, error)
	// Create は person 行と employee 行を追加します。
	Create(ctx context.Context, e *Employee) error
	// Update は original の自然キーで特定した行を edited の内容で更新します。
	Update(ctx context.Context, original, edited *Employee) error
	// Delete は自然キーが一意に一致した場合のみ削除し、削除したかどうかを返します。
	Delete(ctx context.Context, target *Employee) (bool, error)
}
