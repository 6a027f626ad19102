// Package lifecycle содержит чистую арифметику дат для периода продления:
// процент прошедшего периода и число дней до даты продления.
// Функции детерминированы, не обращаются к часам и никогда не изменяют состояние —
// одна и та же математика применяется и к услугам, и к доменам,
// на сервере и при проекции на клиенте.
package lifecycle

import (
	"math"
	"time"
)

// Progress возвращает процент прошедшей части периода продления, целое в [0, 100].
//
// Период задаётся парой (createdAt, nextRenewal). Если период некорректен
// (nextRenewal не позже createdAt), деления на ноль не происходит:
// такой период считается полностью истёкшим и функция возвращает 100.
func Progress(createdAt, nextRenewal, now time.Time) int {
	total := nextRenewal.Sub(createdAt)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(createdAt)
	ratio := float64(elapsed) / float64(total)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(ratio * 100))
}

// DaysRemaining возвращает число дней до даты продления, округляя вверх.
// Для дат в прошлом возвращается 0, отрицательных значений не бывает:
// услуга, просроченная на 40 дней, сообщает 0 дней до продления, а не −40.
func DaysRemaining(nextRenewal, now time.Time) int {
	left := nextRenewal.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}
