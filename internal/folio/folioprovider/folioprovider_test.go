// Copyright 2026 Peter Edge
//
// All rights reserved.

package folioprovider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	mock_folioprovider "github.com/bufdev/folioctl/internal/folio/folioprovider/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCompositionChainFirstNonEmptyWins(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	first := mock_folioprovider.NewMockCompositionClient(ctrl)
	second := mock_folioprovider.NewMockCompositionClient(ctrl)
	third := mock_folioprovider.NewMockCompositionClient(ctrl)
	first.EXPECT().GetComposition(gomock.Any(), "VWRL.L").Return(&folioportfolio.ETFComposition{Symbol: "VWRL.L"}, nil)
	second.EXPECT().GetComposition(gomock.Any(), "VWRL.L").Return(&folioportfolio.ETFComposition{
		Symbol: "VWRL.L",
		Sector: []folioportfolio.Weight{{Key: "Technology", Weight: 25}},
	}, nil)

	composition, err := folioprovider.NewCompositionChain(first, second, third).GetComposition(context.Background(), "VWRL.L")
	require.NoError(t, err)
	require.Equal(t, "Technology", composition.Sector[0].Key)
}

func TestCompositionChainErrorsWhenNoData(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	first := mock_folioprovider.NewMockCompositionClient(ctrl)
	second := mock_folioprovider.NewMockCompositionClient(ctrl)
	first.EXPECT().GetComposition(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))
	second.EXPECT().GetComposition(gomock.Any(), gomock.Any()).Return(nil, nil)

	composition, err := folioprovider.NewCompositionChain(first, nil, second).GetComposition(context.Background(), "X")
	require.ErrorContains(t, err, "unavailable")
	require.Nil(t, composition)
}

func TestCompositionChainLaterDataMasksEarlierError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	first := mock_folioprovider.NewMockCompositionClient(ctrl)
	second := mock_folioprovider.NewMockCompositionClient(ctrl)
	first.EXPECT().GetComposition(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))
	second.EXPECT().GetComposition(gomock.Any(), gomock.Any()).Return(&folioportfolio.ETFComposition{
		Country: []folioportfolio.Weight{{Key: "US", Weight: 60}},
	}, nil)

	composition, err := folioprovider.NewCompositionChain(first, second).GetComposition(context.Background(), "X")
	require.NoError(t, err)
	require.Len(t, composition.Country, 1)
}
