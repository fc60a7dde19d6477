package memory

import (
	"time"

	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/recipients"
)

var kst = time.FixedZone("KST", 9*60*60)

// NewSeeded returns a store filled with the sample console data.
func NewSeeded() *Store {
	s := New()
	for _, r := range sampleRecipients() {
		s.recipients[r.ID] = r
	}
	for _, a := range sampleHistory() {
		s.alerts[a.ID] = a
	}
	for _, c := range sampleCases() {
		s.cases[c.ID] = c
	}
	return s
}

func sampleRecipients() []*recipients.Recipient {
	return []*recipients.Recipient{
		{ID: "1", Name: "김철수", Email: "kim@kosha.or.kr", Group: "안전관리팀"},
		{ID: "2", Name: "이영희", Email: "lee@kosha.or.kr", Group: "현장감독팀"},
		{ID: "3", Name: "박민수", Email: "park@kosha.or.kr", Group: "안전관리팀"},
		{ID: "4", Name: "최지우", Email: "choi@partner.co.kr", Group: "협력업체"},
		{ID: "5", Name: "정우성", Email: "jung@construction.com", Group: "현장소장"},
	}
}

func sampleHistory() []*alerts.AlertHistory {
	return []*alerts.AlertHistory{
		{
			ID:          "101",
			SentAt:      time.Date(2023, 10, 27, 14, 30, 0, 0, kst),
			Group:       "안전관리팀",
			TargetGroup: "안전관리팀(15명)",
			Subject:     "[긴급] 추락 사고 예방 알림",
			Status:      alerts.StatusSuccess,
			Details: &alerts.Details{
				Overview:   "A현장 고소작업 중 안전대 미체결로 인한 추락 사고 발생",
				LegalBasis: "산업안전보건법 제38조(안전조치)",
				Prevention: "고소작업 시 안전대 착용 및 부착설비 설치 철저",
				Checklist:  []string{"안전대 착용 여부 확인", "부착설비 상태 점검", "안전방망 설치 확인"},
			},
		},
		{
			ID:          "102",
			SentAt:      time.Date(2023, 10, 26, 9, 15, 0, 0, kst),
			TargetGroup: "전체(45명)",
			Subject:     "[주의] 동절기 콘크리트 양생 가스 중독",
			Status:      alerts.StatusFail,
			FailReason:  "SMTP Connection Timeout",
			Details: &alerts.Details{
				Overview:   "밀폐공간 콘크리트 양생 중 갈탄 사용에 의한 일산화탄소 중독",
				LegalBasis: "산업안전보건기준에 관한 규칙 제619조",
				Prevention: "밀폐공간 작업 시 환기 설비 가동 및 가스 농도 측정",
				Checklist:  []string{"환기팬 작동 여부", "산소 및 유해가스 농도 측정", "호흡용 보호구 착용"},
			},
		},
		{
			ID:          "103",
			SentAt:      time.Date(2023, 10, 25, 11, 0, 0, 0, kst),
			Group:       "현장소장",
			TargetGroup: "현장소장(5명)",
			Subject:     "이동식 크레인 전도 위험",
			Status:      alerts.StatusSuccess,
			Details: &alerts.Details{
				Overview:   "지반 침하로 인한 이동식 크레인 전도",
				LegalBasis: "산업안전보건기준에 관한 규칙 제2편 제1장",
				Prevention: "작업 전 지반 상태 확인 및 아웃트리거 설치 철저",
				Checklist:  []string{"지반 다짐 상태", "아웃트리거 최대 확장", "정격 하중 준수"},
			},
		},
	}
}

func sampleCases() []*cases.Case {
	alerted := time.Date(2023, 10, 27, 15, 0, 0, 0, kst)
	return []*cases.Case{
		{
			ID:             "c1",
			Date:           "2023-10-27",
			Title:          "건설현장 비계 붕괴 사고",
			AnalysisStatus: cases.StatusCompleted,
			Location:       "부산시 해운대구",
			Cause:          "벽이음 설치 미흡",
			ImageURL:       "https://picsum.photos/400/300",
			OCRText:        "2023.10.27 14:00경 부산 해운대구 소재 오피스텔 신축공사 현장에서 외부 비계 해체 작업 중 벽이음이 조기 철거되어 비계가 붕괴됨. 이로 인해 작업자 2명이 추락하여 부상을 입음.",
			Source:         "board",
			AlertedAt:      &alerted,
			CreatedAt:      time.Date(2023, 10, 27, 4, 0, 0, 0, kst),
		},
		{
			ID:             "c2",
			Date:           "2023-10-26",
			Title:          "물류센터 지게차 충돌",
			AnalysisStatus: cases.StatusPending,
			Location:       "경기도 이천시",
			Cause:          "분석 대기 중",
			ImageURL:       "https://picsum.photos/400/301",
			OCRText:        "2023.10.26 09:30경 경기도 이천 물류센터 입고장에서 지게차 운전자가 적재물로 인해 전방 시야가 확보되지 않은 상태에서 후진하다가 보행 중인 동료 작업자를 충격함. 신호수 미배치 상태였음.",
			Source:         "board",
			CreatedAt:      time.Date(2023, 10, 26, 4, 0, 0, 0, kst),
		},
		{
			ID:             "c3",
			Date:           "2023-10-24",
			Title:          "제조공장 컨베이어 끼임",
			AnalysisStatus: cases.StatusCompleted,
			Location:       "울산시 남구",
			Cause:          "방호장치 해제 후 작업",
			ImageURL:       "https://picsum.photos/400/302",
			OCRText:        "피재자가 컨베이어 이물질 제거 중 기동 스위치를 오조작하여 롤러 사이에 협착됨. 당시 방호 덮개가 제거된 상태였으며, 비상정지 장치 위치를 인지하지 못함.",
			Source:         "board",
			AlertedAt:      &alerted,
			CreatedAt:      time.Date(2023, 10, 24, 4, 0, 0, 0, kst),
		},
	}
}
