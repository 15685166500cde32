package recommendation

// Normalization of the free-text purpose/transportation vocabulary. Korean
// and English synonyms collapse onto the English closed vocabulary; the
// translate helpers go the other way for user-facing text.

func normalizeTransportation(transportation string) string {
	switch transportation {
	case "도보", "walk":
		return "walk"
	case "대중교통", "transit":
		return "transit"
	case "자동차", "car":
		return "car"
	default:
		return "transit"
	}
}

func normalizePurpose(purpose string) string {
	switch purpose {
	case "데이트", "dating":
		return "dating"
	case "가족", "family":
		return "family"
	case "친구", "friendship":
		return "friendship"
	case "맛집", "맛집 탐방", "foodie":
		return "foodie"
	default:
		return purpose
	}
}

// radiusForTransportation maps mode onto a search radius in kilometers.
func radiusForTransportation(transportation string) float64 {
	switch transportation {
	case "walk":
		return 1.0
	case "transit":
		return 3.0
	case "car":
		return 10.0
	default:
		return 3.0
	}
}

func translateTransportation(transportation string) string {
	switch transportation {
	case "walk", "도보":
		return "도보"
	case "transit", "대중교통":
		return "대중교통"
	case "car", "자동차":
		return "자동차"
	default:
		return transportation
	}
}

func translatePurpose(purpose string) string {
	switch purpose {
	case "dating", "데이트":
		return "데이트"
	case "family", "가족":
		return "가족"
	case "friendship", "친구":
		return "친구"
	case "foodie", "맛집", "맛집 탐방":
		return "맛집 탐방"
	default:
		return purpose
	}
}
