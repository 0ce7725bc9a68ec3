// Package results serves the data of a generated report as JSON.
package results

import (
	"net/http"

	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/LambdaTest/covdiff/pkg/report"
	"github.com/gin-gonic/gin"
)

// DiffHandler serves the whole report document.
func DiffHandler(doc *report.Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}

// IndexHandler serves the regression index.
func IndexHandler(doc *report.Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc.Index)
	}
}

// SummaryHandler serves the per-suite coverage tables.
func SummaryHandler(doc *report.Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc.Summary)
	}
}

// ClassHandler serves the regressed lines of one class, addressed by dotted
// package and simple class name.
func ClassHandler(logger lumber.Logger, doc *report.Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		pkg, class := c.Param("package"), c.Param("class")
		for i := range doc.Classes {
			if doc.Classes[i].Package == pkg && doc.Classes[i].Class == class {
				c.JSON(http.StatusOK, &doc.Classes[i])
				return
			}
		}
		logger.Debugf("no regression recorded for %s.%s", pkg, class)
		c.JSON(http.StatusNotFound, &errs.Error{Message: errs.ErrNotFound.Error()})
	}
}
