// Package invoicenum формирует человеко-читаемые номера счетов
// из значений персистентной последовательности хранилища.
// Уникальность номеров гарантирует последовательность базы данных,
// поэтому генератор безопасен при конкурентном создании счетов;
// номер никогда не переиспользуется, даже если счёт позже удалён.
package invoicenum

import (
	"context"
	"fmt"
)

// Prefix — общий префикс всех номеров счетов.
const Prefix = "INV-"

// Sequencer выдаёт следующее значение персистентной последовательности номеров.
type Sequencer interface {
	NextInvoiceSeq(ctx context.Context) (int64, error)
}

// Generator выдаёт уникальные номера счетов на основе Sequencer.
type Generator struct {
	seq Sequencer
}

// New создаёт Generator поверх переданной последовательности.
func New(seq Sequencer) *Generator {
	return &Generator{seq: seq}
}

// Next возвращает следующий номер счёта.
// Номера с дополнением нулями сортируются в порядке создания.
func (g *Generator) Next(ctx context.Context) (string, error) {
	const op = "invoicenum.Next"
	n, err := g.seq.NextInvoiceSeq(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return Format(n), nil
}

// Format преобразует значение последовательности в номер счёта вида INV-00000042.
func Format(n int64) string {
	return fmt.Sprintf("%s%08d", Prefix, n)
}
