package controllers

import "folio/folio/services/content"

type ContentController struct {
	content *content.Service
}

func NewContentController(svc *content.Service) *ContentController {
	return &ContentController{content: svc}
}

func (c *ContentController) Info() content.Info {
	return c.content.Info()
}

func (c *ContentController) Profile() content.Profile {
	return c.content.Profile()
}

func (c *ContentController) Links() []content.Link {
	return c.content.Links()
}

func (c *ContentController) Projects() []content.Project {
	return c.content.Projects()
}

func (c *ContentController) BlogPosts() []content.BlogPost {
	return c.content.BlogPosts()
}
