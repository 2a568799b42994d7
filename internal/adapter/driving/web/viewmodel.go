package web

import (
	"net/url"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/gitshelf/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

// toBookmarkListViewModel converts the bookmark collection and the state of
// the add form into a BookmarkListViewModel.
func toBookmarkListViewModel(bookmarks model.Bookmarks, input, message, csrf string) vm.BookmarkListViewModel {
	items := make([]vm.BookmarkViewModel, 0, len(bookmarks))
	for _, b := range bookmarks {
		items = append(items, vm.BookmarkViewModel{
			Name:       b.Name,
			DetailPath: model.DetailPath(b.Name),
		})
	}

	return vm.BookmarkListViewModel{
		Bookmarks: items,
		Input:     input,
		Error:     message,
		CSRFToken: csrf,
	}
}

// toRepositoryDetailViewModel converts a loaded RepositoryPage into a
// RepositoryDetailViewModel. An unloaded page yields only Identifier and
// Loaded=false.
func toRepositoryDetailViewModel(page application.RepositoryPage) vm.RepositoryDetailViewModel {
	detail := vm.RepositoryDetailViewModel{
		Identifier: page.Identifier,
		Loaded:     page.Loaded(),
	}
	if !detail.Loaded {
		return detail
	}

	repo := page.Repository
	detail.FullName = repo.FullName
	detail.Name = repo.Name
	detail.DescriptionHTML = RenderMarkdown(repo.Description)
	detail.Owner = toUserViewModel(repo.Owner)
	detail.Filters = toFilterTabViewModels(page.Identifier, page.Query)
	detail.Issues = toIssueViewModels(page.Issues)
	detail.Pagination = vm.PaginationViewModel{
		Page:         page.Query.Page,
		PrevDisabled: !page.Query.HasPrev(),
		PrevURL:      detailURL(page.Identifier, page.Query.Prev()),
		NextURL:      detailURL(page.Identifier, page.Query.Next()),
	}

	return detail
}

// toFilterTabViewModels builds one tab per issue state. Switching tabs keeps
// the current page.
func toFilterTabViewModels(identifier string, query model.IssueQuery) []vm.FilterTabViewModel {
	tabs := make([]vm.FilterTabViewModel, 0, len(model.IssueStates))
	for _, state := range model.IssueStates {
		tabs = append(tabs, vm.FilterTabViewModel{
			Label:  stateLabel(state),
			State:  string(state),
			Active: state == query.State,
			URL:    detailURL(identifier, query.WithState(state)),
		})
	}
	return tabs
}

// toIssueViewModels converts domain Issues to IssueViewModels.
func toIssueViewModels(issues []model.Issue) []vm.IssueViewModel {
	vms := make([]vm.IssueViewModel, 0, len(issues))
	for _, issue := range issues {
		labels := make([]vm.LabelViewModel, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			labels = append(labels, vm.LabelViewModel{ID: l.ID, Name: l.Name})
		}

		vms = append(vms, vm.IssueViewModel{
			ID:     issue.ID,
			Title:  issue.Title,
			URL:    issue.HTMLURL,
			Author: toUserViewModel(issue.User),
			Labels: labels,
		})
	}
	return vms
}

func toUserViewModel(u model.User) vm.UserViewModel {
	return vm.UserViewModel{Login: u.Login, AvatarURL: u.AvatarURL}
}

// detailURL returns the detail page URL for identifier with the query's
// state and page encoded as query parameters.
func detailURL(identifier string, query model.IssueQuery) string {
	v := url.Values{}
	v.Set("state", string(query.State))
	v.Set("page", strconv.Itoa(query.Page))
	return model.DetailPath(identifier) + "?" + v.Encode()
}

func stateLabel(state model.IssueState) string {
	s := string(state)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
