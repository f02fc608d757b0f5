package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ytbulkedit/domain/model"
	"ytbulkedit/usecase"
)

type selectionFlags struct {
	ids     []string
	all     bool
	search  string
	refresh bool
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.ids, "ids", nil, "comma-separated item ids, in processing order")
	cmd.Flags().BoolVar(&s.all, "all", false, "select every listed item")
	cmd.Flags().StringVar(&s.search, "search", "", "select items whose title or id contains this term")
	cmd.Flags().BoolVar(&s.refresh, "refresh", false, "re-read the listing from YouTube first")
}

// resolve loads the listing and returns the selected items.
func (s *selectionFlags) resolve(ctx context.Context, engine usecase.IBatchEngine) ([]*model.Item, error) {
	if _, err := engine.ListItems(ctx, s.refresh); err != nil {
		return nil, err
	}
	switch {
	case len(s.ids) > 0:
		return engine.Select(s.ids)
	case s.search != "":
		items := engine.Search(s.search)
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: nothing matches %q", model.ErrNoSelection, s.search)
		}
		return items, nil
	case s.all:
		items := engine.Items()
		if len(items) == 0 {
			return nil, model.ErrNoSelection
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: use --ids, --search or --all", model.ErrNoSelection)
}
