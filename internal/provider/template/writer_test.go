package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

func TestWriter_WriteAd_DefaultFormat(t *testing.T) {
	entry := domain.CatalogEntry{Name: "Microsoft", AdTemplate: "Microsoft의 AI 솔루션으로 비즈니스를 혁신하세요! 무료 체험 신청"}

	ad, err := NewWriter("").WriteAd(context.Background(), entry, "AI 가격")

	assert.NoError(t, err)
	assert.Equal(t, "Microsoft의 솔루션이 궁금하시군요! Microsoft의 AI 솔루션으로 비즈니스를 혁신하세요! 무료 체험 신청", ad)
}

func TestWriter_WriteAd_PlaceholdersInTemplate(t *testing.T) {
	entry := domain.CatalogEntry{Name: "Kakao", AdTemplate: "'{query}'에 대한 답은 {advertiser}에 있습니다"}

	ad, err := NewWriter("{template}").WriteAd(context.Background(), entry, "채널 개설")

	assert.NoError(t, err)
	assert.Equal(t, "'채널 개설'에 대한 답은 Kakao에 있습니다", ad)
}

func TestWriter_WriteAd_QueryIsNotReinterpreted(t *testing.T) {
	entry := domain.CatalogEntry{Name: "Google", AdTemplate: "{query}"}

	ad, err := NewWriter("{template}").WriteAd(context.Background(), entry, "{advertiser}")

	assert.NoError(t, err)
	assert.Equal(t, "{advertiser}", ad)
}
