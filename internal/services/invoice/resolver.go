package services

import "github.com/magabrotheeeer/hosting-portal/internal/models"

// resolveAmount вычисляет сумму счёта в момент его создания.
//
// Явно переданная сумма всегда выигрывает независимо от выбранной услуги.
// Иначе сумма берётся из цены услуги. Если нет ни того, ни другого,
// создание счёта отклоняется. Разрешение выполняется ровно один раз:
// последующие изменения цены услуги уже созданный счёт не затрагивают.
func resolveAmount(explicit *int, svc *models.Service) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if svc != nil {
		return svc.Price, nil
	}
	return 0, models.ErrMissingAmount
}
