package recommendation

import (
	"fmt"
	"strings"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

// Prompt builders for every text-generation call in the pipeline. Prompts
// stay in Korean: the catalog, the users and the model context are Korean.

func buildRankingPrompt(candidates []types.Place, purpose, transportation, stayDuration string, remaining int) string {
	var list strings.Builder
	for i, p := range candidates {
		if i > 0 {
			list.WriteString("\n")
		}
		desc := p.Description
		if desc == "" {
			desc = "정보 없음"
		}
		list.WriteString(fmt.Sprintf("ID: %d | %s | 카테고리: %s | 인기도: %d | 설명: %s | 좌표: (%.4f, %.4f)",
			p.ID, p.Name, p.CategoryOrDefault(), p.PopularityScore, desc, p.Latitude, p.Longitude))
	}

	if stayDuration == "" {
		stayDuration = "당일치기"
	}

	return fmt.Sprintf(`당신은 부천 지역 관광 전문가입니다. 다음 기준으로 최적의 장소 %d개를 선택하세요.

[선택 기준]
1. 여행 목적: %s
2. 교통수단: %s (이동 거리/편의성 고려)
3. 체류 시간: %s
4. 장소 간 동선 효율성 (이동 거리 최소화)
5. 장소의 인기도 및 품질 (popularityScore 참고)
6. 카테고리 다양성 (음식점, 관광지, 문화시설 등 균형)

[후보 장소 목록]
%s

[출력 형식]
반드시 다음 JSON 형식으로만 응답하세요:
{
  "recommendations": [
    {"placeId": 123},
    {"placeId": 456}
  ]
}

[필수 지침]
- 동선을 고려해 가까운 장소들을 묶어서 선택
- 인기도가 높은 장소 우선 (70점 이상 최우선)
- 목적에 맞는 카테고리 우선 (데이트→카페/공원, 가족→공원/문화시설, 맛집→음식점)
- 정확히 %d개 선택
- placeId만 포함, 추가 설명 불필요
`, remaining, translatePurpose(purpose), translateTransportation(transportation), stayDuration, list.String(), remaining)
}

func buildContextSelectionPrompt(candidates []types.Place, userRequest string) string {
	var list strings.Builder
	for i, p := range candidates {
		if i > 0 {
			list.WriteString("\n")
		}
		category := p.Category
		if category == "" {
			category = "없음"
		}
		desc := p.Description
		if desc == "" {
			desc = "없음"
		}
		list.WriteString(fmt.Sprintf("ID: %d | 이름: %s | 카테고리: %s | 설명: %s",
			p.ID, p.Name, category, desc))
	}

	return fmt.Sprintf(`사용자가 필수로 방문하고 싶은 장소를 요청했습니다: "%s"

아래 후보 장소 목록에서 사용자의 요청에 가장 적합한 장소 1개를 선택하세요.

[후보 장소 목록]
%s

[분석 가이드]
- 사용자 요청의 맥락과 의도 파악
- 장소의 이름, 카테고리, 설명을 종합적으로 분석
- 가장 적합한 장소 1개만 선택

[예시]
요청: "카페 같은 곳" → 카테고리가 '카페'이거나 분위기 좋은 곳 선택
요청: "조용한 곳" → '자연', '공원', '사찰' 등 힐링 장소 선택
요청: "사진 찍기 좋은 곳" → 건축미/경관이 특별한 곳 선택
요청: "밥 먹을 곳" → '음식점' 카테고리 선택
요청: "아이들이랑" → 가족 단위 방문에 적합한 곳 선택

[출력 형식]
반드시 JSON 형식으로만 응답하세요:
{
  "placeId": 123,
  "reason": "선택 이유 (1문장)"
}

만약 적합한 장소가 없다면:
{
  "placeId": null,
  "reason": "적합한 장소 없음"
}
`, userRequest, list.String())
}

func buildRelevancePrompt(p types.Place, userRequest string) string {
	category := p.Category
	if category == "" {
		category = "없음"
	}
	desc := p.Description
	if desc == "" {
		desc = "없음"
	}

	return fmt.Sprintf(`사용자 요청: "%s"
장소: %s (카테고리: %s, 설명: %s)

이 장소가 사용자 요청과 관련이 있나요?

[판단 기준]
- 요청: "학교", "교육시설" → 장소 카테고리가 "교육시설"이어야 함
- 요청: "카페" → 카테고리가 "카페"이거나 설명에 카페 관련 내용
- 요청: "공원", "자연" → 카테고리가 "자연"
- 요청: "쇼핑" → 카테고리가 "쇼핑" 또는 백화점/마트

[출력]
관련 있으면 true, 없으면 false만 출력하세요.
`, userRequest, p.Name, category, desc)
}

func buildUserRequestSynthesisPrompt(userRequest string) string {
	return fmt.Sprintf(`사용자가 필수로 방문하고 싶은 장소: "%s"

부천시 또는 인근 지역(인천 계양/부평, 서울 구로/영등포, 경기 광명)에서
사용자 요청에 맞는 **실제 존재하는 장소** 2-3곳을 찾아주세요.

[요구사항]
1. 반드시 실제로 존재하는 장소여야 합니다
2. 정확한 주소와 좌표 필수
3. 부천 중심(37.4985, 126.7822)에서 15km 이내
4. 대중교통으로 1시간 이내 도달 가능
5. 사용자 요청과 직접적으로 관련된 장소

[우선순위]
1순위: 부천시 내부
2순위: 인천 계양구/부평구
3순위: 서울 구로구/영등포구
4순위: 경기 광명시

[예시 해석]
요청: "카페 같은 곳" → 부천의 유명 카페 (스타벅스, 투썸플레이스 등)
요청: "놀이공원" → 인천 월미도 놀이공원
요청: "박물관" → 부천로보파크, 부천교육박물관 등
요청: "쇼핑" → 부천역 현대백화점, 뉴코아아울렛 등

[출력 형식]
반드시 다음 JSON 형식으로만 응답하세요:
{
  "places": [
    {
      "name": "장소명 (구체적으로)",
      "address": "전체 주소",
      "latitude": 위도,
      "longitude": 경도,
      "description": "장소 설명 (50자 이내)",
      "category": "카테고리 (음식점/카페/문화시설/자연/쇼핑/교육시설 중 하나)"
    }
  ]
}

중요: 가짜 장소 금지! 실제 존재하며 영업 중인 장소만 추천하세요.
`, userRequest)
}

func buildNearbySynthesisPrompt(centerLat, centerLon float64, purpose, transportation string, count int) string {
	return fmt.Sprintf(`부천시 근처에서 '%s' 목적에 맞는 실제 존재하는 관광지/명소 %d곳을 추천해주세요.

요구사항:
1. 실제로 존재하는 장소여야 합니다 (가짜 장소 금지)
2. 부천시 또는 인근 지역 (서울 서부, 인천 동부)
3. 좌표는 (%.4f, %.4f) 중심으로 15km 이내
4. %s로 이동 가능한 거리

JSON 형식으로 응답하세요:
{
  "places": [
    {
      "name": "장소명",
      "address": "전체 주소",
      "latitude": 위도,
      "longitude": 경도,
      "description": "장소 설명 (50자 이내)",
      "category": "카테고리 (관광지/음식점/카페/문화시설/공원 중 하나)",
      "tourPurposeTags": "쉼표로 구분된 태그 (예: dating,family)"
    }
  ]
}

중요: 반드시 실제 존재하는 장소만 추천하세요. 정확한 주소와 좌표를 제공하세요.
`, translatePurpose(purpose), count, centerLat, centerLon, translateTransportation(transportation))
}
