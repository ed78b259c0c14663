/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"io"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/render"
)

// WritePNG rasterizes the scene.
func WritePNG(w io.Writer, scene *domain.Scene, opt Options) error {
	opt = opt.withDefaults()
	frame := Frame(scene, opt.Margin)
	r := render.NewRaster(frame, opt.Scale)
	paint(r, frame, scene, opt)
	return r.WritePNG(w)
}
